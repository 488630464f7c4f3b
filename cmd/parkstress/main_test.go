package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		run  scenario
	}{
		{`once`, runOnce},
		{`pingpong`, runPingPong},
		{`broadcast`, runBroadcast},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
			defer cancel()
			require.NoError(t, tc.run(ctx, 4, 200))
		})
	}
}

func TestScenarios_canceled(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		run  scenario
	}{
		{`once`, runOnce},
		{`pingpong`, runPingPong},
		{`broadcast`, runBroadcast},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			require.ErrorIs(t, tc.run(ctx, 4, 1000), context.Canceled)
		})
	}
}

func TestApp_execute(t *testing.T) {
	var stderr bytes.Buffer
	x := newApp()
	x.root.SetErr(&stderr)
	x.root.SetOut(&stderr)
	require.NoError(t, x.execute(context.Background(), []string{`pingpong`, `--goroutines`, `2`, `--rounds`, `50`, `--log-level`, `info`}))
	assert.Contains(t, stderr.String(), `"scenario":"pingpong"`)
	assert.Contains(t, stderr.String(), `stress test passed`)
}

func TestApp_execute_invalidLevel(t *testing.T) {
	var stderr bytes.Buffer
	x := newApp()
	x.root.SetErr(&stderr)
	x.root.SetOut(&stderr)
	require.Error(t, x.execute(context.Background(), []string{`once`, `--log-level`, `loud`}))
}

func TestParseLevel(t *testing.T) {
	for _, tc := range [...]struct {
		input string
		want  logiface.Level
		err   bool
	}{
		{`info`, logiface.LevelInformational, false},
		{`DEBUG`, logiface.LevelDebug, false},
		{`err`, logiface.LevelError, false},
		{`disabled`, logiface.LevelDisabled, false},
		{`verbose`, 0, true},
	} {
		t.Run(tc.input, func(t *testing.T) {
			level, err := parseLevel(tc.input)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, level)
		})
	}
}
