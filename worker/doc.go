// Package worker runs planning on behalf of many agents.
//
// Two deployment shapes are supported. Pool serves a batch of
// requests inside one process, for tick-based hosts that want every
// agent's plan within the tick budget. Run consumes requests from the
// Redis queue (see the queue package), for hosts that offload
// planning to dedicated worker processes; results flow back over
// pub/sub.
//
// Both accept any Planner implementation; the root package's Planner
// is the usual one.
package worker
