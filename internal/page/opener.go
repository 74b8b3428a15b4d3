package page

import "context"

// Opener turns a configured target into a Page, loading fixtures from disk
// and fetching everything else over HTTP.
type Opener struct {
	Fetcher *Fetcher
}

// NewOpener returns an opener backed by the given fetcher, or a default one.
func NewOpener(f *Fetcher) *Opener {
	if f == nil {
		f = NewFetcher(nil)
	}
	return &Opener{Fetcher: f}
}

// Open implements the detector runner's page source.
func (o *Opener) Open(ctx context.Context, target string) (Page, error) {
	var (
		p   *Static
		err error
	)
	if IsFixture(target) {
		p, err = LoadFixture(target)
	} else {
		p, err = o.Fetcher.Fetch(ctx, target)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
