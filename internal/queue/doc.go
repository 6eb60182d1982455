// Package queue persists the ordered list of discs to capture. Order is the
// contract: the operator feeds discs in queue order, so jobs are always
// dequeued strictly by insertion.
package queue
