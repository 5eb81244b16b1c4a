package sensitivedata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvider_Track(t *testing.T) {
	p := NewProvider()
	p.Track("secret-one", "secret-two", "", "abc", "secret-one")

	values := p.AllValues()
	assert.ElementsMatch(t, []string{"secret-one", "secret-two"}, values)

	values[0] = "changed"
	assert.NotContains(t, p.AllValues(), "changed")
}

func TestProvider_TrackURL(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"postgres://app:s3cr3t-pw@db:5432/audit?sslmode=disable", []string{"s3cr3t-pw"}},
		{"redis://:p%40ssw0rd@cache:6379/0", []string{"p@ssw0rd", "p%40ssw0rd"}},
		{"/var/lib/mealguard/audit.db", nil},
		{"postgres://app@db/audit", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p := NewProvider()
			p.TrackURL(tt.raw)
			assert.ElementsMatch(t, tt.want, p.AllValues())
		})
	}
}

func TestProvider_ScrubLongestFirst(t *testing.T) {
	p := NewProvider()
	p.Track("token", "token-with-suffix")
	assert.Equal(t, "key=[REDACTED] other=[REDACTED]", p.Scrub("key=token-with-suffix other=token"))
}

func TestProvider_Concurrency(t *testing.T) {
	p := NewProvider()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Track("shared-secret")
		}()
		go func() {
			defer wg.Done()
			_ = p.Scrub("contains shared-secret")
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"shared-secret"}, p.AllValues())
}
