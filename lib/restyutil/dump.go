// Package restyutil dumps raw HTTP exchanges for debugging scrapers against
// markup that changed under them.
package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

// writes every response `client` receives, with the request that produced
// it, to `output`. messages are numbered in the order they arrive.
func DumpMessages(client *resty.Client, output Output) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d", atomic.AddUint64(&counter, 1))
		output.Write(id, formatHttpMessage(res))
		return nil
	})
}
