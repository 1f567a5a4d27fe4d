package sampling

import "context"

// Runner evaluates rows independent of each other. fn must be called once
// for every row in [0, rows); it writes its own output slot, so the order in
// which rows run does not affect the result.
type Runner interface {
	Run(ctx context.Context, rows int, fn func(ctx context.Context, row int) error) error
}

// Sequential runs rows one after another on the calling goroutine.
type Sequential struct{}

// Run implements Runner.
func (Sequential) Run(ctx context.Context, rows int, fn func(ctx context.Context, row int) error) error {
	for row := 0; row < rows; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
