// Package testing provides test utilities shared by the nifcloud-lb packages.
//
//   - FakeNifcloud: an httptest server speaking the load balancer subset of
//     the NIFCLOUD API, with signature checks, eventual consistency and
//     error injection
//   - SleepClock: a clock whose Sleep returns at once and advances time
//   - ConfigBuilder: fluent builder for test configurations
//
// Usage:
//
//	api := testing.NewFakeNifcloud(t, secret)
//	api.AddLoadBalancer(testing.FakeLoadBalancer{Name: "lb001", ...})
//	client := api.Client(accessKey)
package testing
