package engine

import (
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/aurum/internal/common"
)

// StartExpirySweeper launches a background goroutine, supervised by t, that
// wakes on the given interval and retires every resting GTD/DAY order whose
// expire_time has passed (§4.3.5). It interleaves safely with matching
// because it takes each symbol's lock for the duration of its own sweep,
// the same discipline every other command uses.
func (e *Engine) StartExpirySweeper(t *tomb.Tomb, interval time.Duration) {
	t.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.Dying():
				return nil
			case <-ticker.C:
				e.sweepExpired()
			}
		}
	})
}

func (e *Engine) sweepExpired() {
	for _, symbol := range e.Symbols() {
		sym, serr := e.getSymbol(symbol)
		if serr != nil {
			continue
		}
		e.sweepSymbol(symbol, sym)
	}
}

func (e *Engine) sweepSymbol(symbol string, sym *symbolState) {
	sym.mu.Lock()
	defer sym.mu.Unlock()

	b := sym.book
	now := e.clock.Now()

	var expired []*common.Order
	b.EachOrder(func(o *common.Order) {
		if !o.ExpireTime.IsZero() && !o.ExpireTime.After(now) {
			expired = append(expired, o)
		}
	})
	if len(expired) == 0 {
		return
	}

	before := captureTop(b)
	touched := make(map[touchedLevel]bool, len(expired))

	for _, o := range expired {
		side, price := o.Side, o.Price
		if _, err := b.Cancel(o.ID); err != nil {
			log.Error().Err(err).Str("order", string(o.ID)).Msg("expiry sweep: order vanished from index mid-sweep")
			continue
		}
		o.Cancel(common.Expired, common.ReasonExpired)
		touched[touchedLevel{side, price}] = true
		sym.markTerminal(o.ID)
		e.stats.recordExpiry()
		e.publishOrderUpdate(*o)
	}

	e.publishBookEvents(symbol, b, touched, before)
}
