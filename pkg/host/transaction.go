package host

import (
	"context"
	"fmt"

	"github.com/matzehuels/footprint/pkg/errors"
)

// InTransaction runs fn inside a transaction named name. The transaction is
// committed only if fn returns nil and ctx is still live; otherwise it is
// rolled back. A panic in fn rolls back and is re-raised.
func InTransaction(ctx context.Context, doc Document, name string, fn func() error) error {
	return scoped(ctx, name, func() (Transaction, error) { return doc.Begin(name) }, fn)
}

// InGroup is InTransaction for a transaction group.
func InGroup(ctx context.Context, doc Document, name string, fn func() error) error {
	return scoped(ctx, name, func() (Transaction, error) { return doc.BeginGroup(name) }, fn)
}

func scoped(ctx context.Context, name string, begin func() (Transaction, error), fn func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransaction, err, "start %q", name)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	if err = fn(); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeTransaction, err, "commit %q", name)
	}
	committed = true
	return nil
}
