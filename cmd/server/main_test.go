package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type syncCountingCore struct {
	zapcore.Core
	syncs int
}

func (c *syncCountingCore) Sync() error {
	c.syncs++
	return c.Core.Sync()
}

func TestFinishFlushesOnError(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	core := &syncCountingCore{Core: obs}

	code := finish(zap.New(core), errors.New("listen tcp :8080: address already in use"))
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, core.syncs)
	entries := logs.FilterMessage("server exited").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	}
}

func TestFinishCleanExit(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	core := &syncCountingCore{Core: obs}

	assert.Equal(t, 0, finish(zap.New(core), nil))
	assert.Equal(t, 1, core.syncs)
	assert.Zero(t, logs.Len())
}
