package webclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// ChromeDPClient renders pages in a headless browser before capturing the
// DOM, for sites that populate image markup from JavaScript.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	userAgent   string
	logger      interfaces.Logger
}

// NewChromeDPClient builds a browser-backed client sharing one allocator
// across requests. idleAfter is how long the network must stay quiet before
// the DOM is considered settled.
func NewChromeDPClient(cfg Config, logger interfaces.Logger, opts ...chromedp.ExecAllocatorOption) (*ChromeDPClient, error) {
	idleAfter := time.Duration(cfg.IdleAfterSeconds) * time.Second
	if idleAfter <= 0 {
		idleAfter = 2 * time.Second
	}

	allOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		allOpts = append(allOpts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		allOpts = append(allOpts, chromedp.UserAgent(cfg.UserAgent))
	}
	allOpts = append(allOpts, opts...)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allOpts...)

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		idleAfter:   idleAfter,
		userAgent:   cfg.UserAgent,
		logger:      logger.With(interfaces.Field{Key: "component", Value: "webclient-chromedp"}),
	}, nil
}

// waitNetworkIdle signals once no network request has been in flight for
// idleAfter. It must be wired to the tab context before navigation starts.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() { close(idleChan) })
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&activeReqs, -1) == 0 {
				startTimer()
			}
		}
	})

	// Covers pages that issue no subresource requests at all.
	startTimer()

	return idleChan
}

// Do navigates a fresh tab to req.URL, waits for network idle and returns the
// rendered document. Only GET navigation is supported by this backend.
func (cdc *ChromeDPClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	tabCtx, cancel := chromedp.NewContext(cdc.allocCtx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var tcancel context.CancelFunc
		tabCtx, tcancel = context.WithDeadline(tabCtx, deadline)
		defer tcancel()
	}

	// Capture the main document status before subresources start arriving.
	var statusCode int64 = http.StatusOK
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument && statusCode == http.StatusOK {
				statusCode = resp.Response.Status
			}
		}
	})

	waitIdleChan := waitNetworkIdle(tabCtx, cdc.idleAfter)

	if err := chromedp.Run(tabCtx, chromedp.Navigate(req.URL)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	select {
	case <-waitIdleChan:
	case <-tabCtx.Done():
		return nil, fmt.Errorf("render %s: %w", req.URL, tabCtx.Err())
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("capture dom %s: %w", req.URL, err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "text/html; charset=utf-8")

	return &model.Response{
		Request:    req,
		Body:       []byte(html),
		Headers:    headers,
		StatusCode: int(statusCode),
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests.
func (cdc *ChromeDPClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return cdc.Do(ctx, &model.Request{Method: http.MethodGet, URL: url})
}

func (cdc *ChromeDPClient) Close() error {
	cdc.logger.Info("closing chromedp webclient")
	cdc.allocCancel()
	return nil
}
