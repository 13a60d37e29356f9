package lambda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signadot/go-lambda/debug"
	"github.com/signadot/go-lambda/ir"
)

type Mode int

const (
	// Waited forks run on the caller's tree.
	Waited Mode = iota
	// Detached forks run on a clone and outlive the caller's context.
	Detached
)

func (m Mode) String() string {
	if m == Detached {
		return "detached"
	}
	return "waited"
}

// Task is a handle on a forked execution.
type Task struct {
	done chan struct{}
	err  error
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// WaitTimeout waits at most d. It reports false if the task is still
// running, which keeps running.
func (t *Task) WaitTimeout(d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.done:
		return true, t.err
	case <-timer.C:
		return false, nil
	}
}

// Fork runs scope as a program in a new goroutine. Detached forks run
// clones of their blocks and outlive ctx.
func (x *Executor) Fork(ctx context.Context, scope *ir.Node, mode Mode) *Task {
	run := func(ctx context.Context) error {
		return x.Execute(withTop(ctx, scope), scope)
	}
	if mode == Detached {
		ctx = context.WithoutCancel(ctx)
		var err error
		if run, err = x.detach(scope); err != nil {
			t := &Task{done: make(chan struct{}), err: err}
			close(t.done)
			return t
		}
	}
	return x.start(ctx, scope.Name, mode, run)
}

func (x *Executor) start(ctx context.Context, name string, mode Mode, run func(context.Context) error) *Task {
	if debug.Fork() {
		debug.Logf("fork %q %s\n", name, mode)
	}
	t := &Task{done: make(chan struct{})}
	x.tasks.Add(1)
	go func() {
		defer x.tasks.Done()
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("fork %q panicked: %v", name, r)
			}
		}()
		t.err = run(ctx)
		if t.err != nil && debug.Fork() {
			debug.Logf("fork %q failed: %v\n", name, t.err)
		}
	}()
	return t
}

// detach resolves the blocks of scope on the caller's tree and returns a
// function running clones of them.
func (x *Executor) detach(scope *ir.Node) (func(context.Context) error, error) {
	targets, ok, err := x.targets(scope)
	if err != nil {
		return nil, err
	}
	if !ok {
		c := scope.Clone()
		return func(ctx context.Context) error {
			return x.block(ctx, c, nil)
		}, nil
	}
	params := scope.CloneChildren()
	for i := range targets {
		targets[i] = targets[i].Clone()
	}
	return func(ctx context.Context) error {
		for _, t := range targets {
			if err := x.block(ctx, t, params); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

type topKey struct{}

// withTop bounds the error snapshots taken under ctx to the subtree of
// scope. Waited forks share the tree with their siblings.
func withTop(ctx context.Context, scope *ir.Node) context.Context {
	return context.WithValue(ctx, topKey{}, scope)
}

func topOf(ctx context.Context) *ir.Node {
	n, _ := ctx.Value(topKey{}).(*ir.Node)
	return n
}

// Wait blocks until every task forked by x has completed.
func (x *Executor) Wait() {
	x.tasks.Wait()
}

// WaitAll waits for tasks sharing the budget d; a negative d waits
// without limit. It reports whether all tasks completed and joins the
// errors of those that did.
func WaitAll(tasks []*Task, d time.Duration) (bool, error) {
	var errs []error
	if d < 0 {
		for _, t := range tasks {
			errs = append(errs, t.Wait())
		}
		return true, errors.Join(errs...)
	}
	deadline := time.Now().Add(d)
	all := true
	for _, t := range tasks {
		done, err := t.WaitTimeout(max(time.Until(deadline), 0))
		if !done {
			all = false
			continue
		}
		errs = append(errs, err)
	}
	return all, errors.Join(errs...)
}
