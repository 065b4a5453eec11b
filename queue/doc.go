// Package queue provides Redis-based transport for distributed plan
// generation.
//
// The queue decouples plan requests from the workers that serve them:
// a game server or simulation host submits PlanRequest items to a
// Redis list, planning workers consume them with BRPOP, and PlanResult
// items flow back through Redis pub/sub on a per-request channel.
//
// # Redis Key Schema
//
//   - goap:plan:requests - default list for plan requests (LPUSH/BRPOP)
//   - goap:plan:results:<requestID> - pub/sub channel for that request's result
//   - goap:worker:<workerID>:health - string with 30s TTL for heartbeat
//   - goap:queue:<queue>:workers - integer counter of active workers
//
// # Usage
//
// Submitting a request and waiting for the plan:
//
//	client, err := queue.NewRedisClient(queue.RedisOptions{
//		URL: "redis://localhost:6379",
//	})
//
//	req := queue.PlanRequest{
//		ID:          uuid.NewString(),
//		AgentID:     "agent-1",
//		Facts:       observed,
//		Goal:        goal,
//		SubmittedAt: time.Now().UnixMilli(),
//	}
//
//	results, err := client.Subscribe(ctx, queue.ResultChannel(req.ID))
//	if err != nil {
//		return err
//	}
//	if err := client.Submit(ctx, queue.DefaultRequestQueue, req); err != nil {
//		return err
//	}
//	result := <-results
//
// The worker side lives in the worker package; see worker.Run.
//
// # Thread Safety
//
// RedisClient is safe for concurrent use by multiple goroutines.
package queue
