package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c, err := NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Set(ctx, "pypi:requests", []byte(`{"version":"2.31.0"}`), 0); err != nil {
			t.Fatal(err)
		}
		data, ok, err := c.Get(ctx, "pypi:requests")
		if err != nil || !ok {
			t.Fatalf("Get() = (%q, %v, %v)", data, ok, err)
		}
		if !bytes.Equal(data, []byte(`{"version":"2.31.0"}`)) {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("miss", func(t *testing.T) {
		c, err := NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		_, ok, err := c.Get(ctx, "absent")
		if err != nil || ok {
			t.Errorf("Get(absent) = (_, %v, %v), want miss", ok, err)
		}
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c, err := NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Set(ctx, "ephemeral", []byte("x"), time.Nanosecond); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
		_, ok, err := c.Get(ctx, "ephemeral")
		if err != nil || ok {
			t.Errorf("expired Get() = (_, %v, %v), want miss", ok, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		c, err := NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Set(ctx, "key", []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
		if err := c.Delete(ctx, "key"); err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := c.Get(ctx, "key"); ok {
			t.Error("Get() hit after Delete()")
		}
		if err := c.Delete(ctx, "key"); err != nil {
			t.Errorf("deleting a missing key: %v", err)
		}
	})
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	scoped := NewScoped(inner, "pypi:")
	if err := scoped.Set(ctx, "requests", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := inner.Get(ctx, "pypi:requests"); !ok {
		t.Error("scoped Set did not write the prefixed key")
	}
	if _, ok, _ := inner.Get(ctx, "requests"); ok {
		t.Error("scoped Set wrote the bare key")
	}
	if _, ok, _ := scoped.Get(ctx, "requests"); !ok {
		t.Error("scoped Get missed its own key")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "key", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "key"); ok || err != nil {
		t.Errorf("Get() = (_, %v, %v), want permanent miss", ok, err)
	}
}
