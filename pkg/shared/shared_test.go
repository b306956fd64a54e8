package shared

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	text   string
	number int
	ratio  float32
}

func TestNewRelease(t *testing.T) {
	v := &payload{text: "abc", number: 1}
	p := New(v)
	require.Equal(t, int64(1), p.Count())
	require.Same(t, v, p.Get())

	require.Same(t, p, p.Retain())
	require.Equal(t, int64(2), p.Count())
	require.False(t, p.Release())
	require.Equal(t, "abc", p.Get().text)

	require.True(t, p.Release())
	require.Equal(t, int64(0), p.Count())
	require.Nil(t, p.Get())
}

func TestMake(t *testing.T) {
	p := Make(payload{text: "abc", number: 5, ratio: 3.1415})
	require.Equal(t, int64(1), p.Count())
	require.Equal(t, 5, p.Get().number)
	p.Get().number = 6
	require.Equal(t, 6, p.Get().number)
	require.True(t, p.Release())
	require.Nil(t, p.Get())
}

func TestDeleter(t *testing.T) {
	var deleted []*payload
	v := &payload{}
	p := NewWithDeleter(v, func(d *payload) {
		deleted = append(deleted, d)
	})
	p.Retain()
	require.False(t, p.Release())
	require.Empty(t, deleted)
	require.True(t, p.Release())
	require.Equal(t, []*payload{v}, deleted)
}

func TestReleasedHandlePanics(t *testing.T) {
	p := Make(payload{})
	require.True(t, p.Release())
	require.Panics(t, func() { p.Release() })

	q := New(&payload{})
	require.True(t, q.Release())
	require.Panics(t, func() { q.Retain() })
}

func TestConcurrentOwners(t *testing.T) {
	released := 0
	p := NewWithDeleter(&payload{}, func(*payload) { released++ })
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		p.Retain()
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Release()
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), p.Count())
	require.True(t, p.Release())
	require.Equal(t, 1, released)
}

func TestAllocations(t *testing.T) {
	newAllocs := testing.AllocsPerRun(100, func() {
		New(&payload{text: "1234567891012131415161718192021", number: 5}).Release()
	})
	makeAllocs := testing.AllocsPerRun(100, func() {
		Make(payload{text: "1234567891012131415161718192021", number: 5}).Release()
	})
	require.Equal(t, float64(2), newAllocs)
	require.Equal(t, float64(1), makeAllocs)
}

func BenchmarkNew(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		New(&payload{number: i}).Release()
	}
}

func BenchmarkMake(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Make(payload{number: i}).Release()
	}
}
