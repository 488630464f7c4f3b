package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-parking"
	"github.com/joeycumines/go-parking/once"
	"golang.org/x/sync/errgroup"
)

// parkPoll bounds each park, so cancellation is noticed.
const parkPoll = time.Millisecond * 100

// parkContext parks on w until notified, or until ctx is done.
func parkContext(ctx context.Context, w *parking.Word) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if parking.ParkTimeout(w, parkPoll) == parking.Notified {
			return nil
		}
	}
}

// runOnce has every goroutine walk the same cells, racing to initialise each
// with its own id. The sums they observe must all be equal.
func runOnce(ctx context.Context, goroutines, rounds int) error {
	cells := make([]once.Cell[int], rounds)
	var result once.Cell[int]
	g, ctx := errgroup.WithContext(ctx)
	for id := range goroutines {
		g.Go(func() error {
			var sum int
			for i := range cells {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				sum += cells[i].GetOrInit(func() int { return id })
			}
			if want := result.GetOrInit(func() int { return sum }); sum != want {
				return fmt.Errorf(`parkstress: once: goroutine %d saw sum %d, another saw %d`, id, sum, want)
			}
			return nil
		})
	}
	return g.Wait()
}

// runPingPong passes a token back and forth between pairs of goroutines.
func runPingPong(ctx context.Context, goroutines, rounds int) error {
	g, ctx := errgroup.WithContext(ctx)
	for range max(goroutines/2, 1) {
		var ping, pong parking.Word
		var token atomic.Int64
		g.Go(func() error {
			for i := range int64(rounds) {
				if err := parkContext(ctx, &ping); err != nil {
					return err
				}
				if v := token.Load(); v != i*2+1 {
					return fmt.Errorf(`parkstress: pingpong: got token %d, want %d`, v, i*2+1)
				}
				token.Add(1)
				parking.Unpark(&pong)
			}
			return nil
		})
		g.Go(func() error {
			for i := range int64(rounds) {
				token.Add(1)
				parking.Unpark(&ping)
				if err := parkContext(ctx, &pong); err != nil {
					return err
				}
				if v := token.Load(); v != i*2+2 {
					return fmt.Errorf(`parkstress: pingpong: got token %d, want %d`, v, i*2+2)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// runBroadcast steps goroutines through generations in lock step, the
// notifier waiting for every waiter to acknowledge each one.
func runBroadcast(ctx context.Context, goroutines, rounds int) error {
	if rounds >= parking.MaxPayload {
		return fmt.Errorf(`parkstress: broadcast: rounds must be less than %d`, parking.MaxPayload)
	}
	var (
		generation parking.Word
		acked      parking.Word
		acks       atomic.Int64
	)
	g, ctx := errgroup.WithContext(ctx)
	// Wait has no timeout, so cancel parks the generation on a value no round
	// reaches, releasing everyone for good
	stop := context.AfterFunc(ctx, func() { parking.StoreAndWake(&generation, parking.MaxPayload) })
	defer stop()

	for id := range goroutines {
		g.Go(func() error {
			var gen uint32
			for round := range uint32(rounds) {
				if err := ctx.Err(); err != nil {
					return err
				}
				parking.Wait(&generation, gen)
				if err := ctx.Err(); err != nil {
					return err
				}
				if gen = parking.Generation(&generation); gen != round+1 {
					return fmt.Errorf(`parkstress: broadcast: goroutine %d saw generation %d, want %d`, id, gen, round+1)
				}
				if acks.Add(1) == int64(goroutines) {
					acks.Store(0)
					parking.Unpark(&acked)
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		for round := range uint32(rounds) {
			// NotifyAll, unless canceled
			if !parking.TryStoreAndWake(&generation, round, round+1) {
				return ctx.Err()
			}
			if err := parkContext(ctx, &acked); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}
