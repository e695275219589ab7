package lz4pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllJobs(t *testing.T) {
	const n = 50
	var completed int32

	p := New(context.Background(), 4)
	for i := 0; i < n; i++ {
		job := &Job{
			Src: []byte{byte(i)},
			Dst: make([]byte, 1),
			Compress: func(src, dst []byte) (int, error) {
				atomic.AddInt32(&completed, 1)
				copy(dst, src)
				return len(src), nil
			},
		}
		p.Submit(job)
	}
	require.NoError(t, p.CompleteAll())
	assert.EqualValues(t, n, completed)
}

func TestPoolSurfacesFirstError(t *testing.T) {
	boom := errors.New("boom")
	p := New(context.Background(), 2)
	for i := 0; i < 10; i++ {
		i := i
		p.Submit(&Job{
			Compress: func(src, dst []byte) (int, error) {
				if i == 3 {
					return 0, boom
				}
				return 0, nil
			},
		})
	}
	err := p.CompleteAll()
	assert.ErrorIs(t, err, boom)
}

func TestDefaultWorkersPositive(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}
