package portrait_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parlwatch/pspcrawl/internal/portrait"
)

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) GetRaw(_ context.Context, _ string) ([]byte, error) {
	return f.body, f.err
}

func TestHasherHash(t *testing.T) {
	// SHA-1 of "psp" — identical bytes must always produce the same id.
	hasher := portrait.NewHasher(&fakeFetcher{body: []byte("psp")})

	got, err := hasher.Hash(context.Background(), "https://www.psp.cz/eknih/foo.jpg")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	const want = "b373e56b141c8f60566d3af138dc6936f0482959"
	if got != want {
		t.Errorf("Hash() = %q, want %q", got, want)
	}

	again, err := hasher.Hash(context.Background(), "https://www.psp.cz/eknih/other-url.jpg")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if again != got {
		t.Errorf("identical bytes hashed differently: %q vs %q", again, got)
	}
}

func TestHasherFetchError(t *testing.T) {
	fetchErr := errors.New("status 404")
	hasher := portrait.NewHasher(&fakeFetcher{err: fetchErr})

	if _, err := hasher.Hash(context.Background(), "https://www.psp.cz/eknih/foo.jpg"); !errors.Is(err, fetchErr) {
		t.Errorf("Hash() error = %v, want wrapped fetch error", err)
	}
}
