package proxy

// Subscribe registers fn to be invoked after any operation that may have
// changed server-side state. The registry is append-only; listeners fire in
// registration order. A nil fn is accepted (the registry mirrors whatever
// the caller handed over) and reported as a usage error at notify time.
func (p *Proxy) Subscribe(fn func()) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Notify invokes every registered listener once, as if a mutation had just
// completed. Exposed for consumers that change server state outside the
// proxy (e.g. an upload collaborator finishing a transfer).
func (p *Proxy) Notify() { p.notify() }

// notify invokes every registered listener exactly once, in order. A nil
// entry is logged and skipped; it does not abort remaining invocations.
// Called only after the triggering request's response has been received.
func (p *Proxy) notify() {
	p.mu.Lock()
	ls := append(([]func())(nil), p.listeners...)
	p.mu.Unlock()
	notifyTotal.Inc()
	for i, fn := range ls {
		if fn == nil {
			p.log.Warn().Int("index", i).Msg("skipping nil model listener")
			continue
		}
		fn()
	}
}
