package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// WriteJSON marshals v and stores it at path.
func WriteJSON(ctx context.Context, store ObjectStore, path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return store.Write(ctx, path, data)
}

// ReadJSON reads the object at path and unmarshals it into v.
func ReadJSON(ctx context.Context, store ObjectStore, path string, v any) error {
	data, err := store.Read(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// WriteJSONGzip marshals v, compresses it and stores it at path.
// Used for bulky artifacts like per-topic embedding matrices.
func WriteJSONGzip(ctx context.Context, store ObjectStore, path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}

	return store.Write(ctx, path, buf.Bytes())
}

// ReadJSONGzip reads a gzip-compressed JSON object at path into v.
func ReadJSONGzip(ctx context.Context, store ObjectStore, path string, v any) error {
	data, err := store.Read(ctx, path)
	if err != nil {
		return err
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decompress %s: %w", path, err)
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", path, err)
	}

	if err := json.Unmarshal(decoded, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}
