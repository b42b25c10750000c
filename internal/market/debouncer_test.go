package market

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

type termRecorder struct {
	mu    sync.Mutex
	terms []string
}

func (r *termRecorder) record(term string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, term)
}

func (r *termRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}

func TestSearchDebouncer_PromotesStableTerm(t *testing.T) {
	rec := &termRecorder{}
	d := NewSearchDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	for _, term := range []string{"b", "bi", "bit", "bitc"} {
		d.Input(term)
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return len(rec.get()) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, []string{"bitc"}, rec.get())
	assert.Equal(t, "bitc", d.Term())
}

func TestSearchDebouncer_OncePerStableWindow(t *testing.T) {
	rec := &termRecorder{}
	d := NewSearchDebouncer(30*time.Millisecond, rec.record)
	defer d.Stop()

	d.Input("doge")
	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)

	d.Input("dogecoin")
	assert.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"doge", "dogecoin"}, rec.get())
}

func TestSearchDebouncer_Stop(t *testing.T) {
	rec := &termRecorder{}
	d := NewSearchDebouncer(20*time.Millisecond, rec.record)

	d.Input("solana")
	d.Stop()
	d.Input("ethereum")
	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, rec.get())
}

func TestService_SearchDebouncer(t *testing.T) {
	svc, mockTransport := newTestService(t)
	svc.cfg.SearchDebounce = 20 * time.Millisecond

	mockTransport.EXPECT().
		Get(gomock.Any(), "/search", url.Values{"query": {"eth"}}).
		Return([]byte(`{"coins":[{"id":"ethereum","name":"Ethereum","symbol":"eth","thumb":"t"}]}`), nil).
		Times(1)

	var mu sync.Mutex
	results := map[string]query.Result{}
	d := svc.NewSearchDebouncer(context.Background(), func(term string, res query.Result) {
		mu.Lock()
		defer mu.Unlock()
		results[term] = res
	})
	defer d.Stop()

	d.Input("et")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := results["et"]
		return ok
	}, time.Second, 5*time.Millisecond)

	d.Input("e")
	d.Input("eth")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := results["eth"]
		return ok
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, models.QueryStatusIdle, results["et"].Status)
	assert.Equal(t, models.QueryStatusSuccess, results["eth"].Status)
	_, promotedShort := results["e"]
	assert.False(t, promotedShort)
}
