// Package supabase adapts the supabase-go client to the probe interfaces.
// The client calls do not accept a context and run on an http.Client without
// a timeout, so concurrent callers share a single outstanding request and a
// caller stops waiting when its context ends.
package supabase

import (
	"context"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
	"golang.org/x/sync/singleflight"
)

// NewClient creates a Supabase client authenticated with key.
func NewClient(url, key string) (*supa.Client, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
}

// TablePinger selects one row from a table over PostgREST.
type TablePinger struct {
	client *supa.Client
	table  string
	calls  flight
}

func NewTablePinger(client *supa.Client, table string) *TablePinger {
	return &TablePinger{client: client, table: table}
}

func (p *TablePinger) Ping(ctx context.Context) error {
	_, err := p.calls.do(ctx, p.table, func() (any, error) {
		_, _, err := p.client.From(p.table).Select("*", "", false).Limit(1, "").Execute()
		if err != nil {
			return nil, fmt.Errorf("select from %s: %w", p.table, err)
		}
		return nil, nil
	})
	return err
}

// BucketChecker looks up the document bucket through the Storage API.
type BucketChecker struct {
	client *supa.Client
	bucket string
	calls  flight
}

func NewBucketChecker(client *supa.Client, bucket string) *BucketChecker {
	return &BucketChecker{client: client, bucket: bucket}
}

func (b *BucketChecker) CheckBucket(ctx context.Context) error {
	_, err := b.calls.do(ctx, b.bucket, func() (any, error) {
		if _, err := b.client.Storage.GetBucket(b.bucket); err != nil {
			return nil, fmt.Errorf("get bucket %s: %w", b.bucket, err)
		}
		return nil, nil
	})
	return err
}

// flight runs at most one call per key. Callers whose context ends return
// early while the call keeps running, and later callers join it until it
// returns.
type flight struct {
	group singleflight.Group
}

func (f *flight) do(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	ch := f.group.DoChan(key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
