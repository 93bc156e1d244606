// Package bench times call strategies and compares them.
//
// A Harness runs one operation a fixed number of times, strictly one after
// the other, and reports the mean wall-clock time. A Driver warms every
// strategy once and then feeds each of them through the harness in a fixed
// order, handing results to a Reporter as they complete.
//
// Neither type recovers from failures: the first error aborts the current
// strategy and the run.
package bench
