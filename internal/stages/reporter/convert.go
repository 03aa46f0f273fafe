package reporter

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Converter turns an HTML document body into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, htmlBody string) ([]byte, error)
}

// ChromePDF renders HTML through a headless browser. Each conversion runs in
// its own browser context so a hung render cannot poison subsequent ones.
type ChromePDF struct {
	Timeout time.Duration
}

const defaultConvertTimeout = 60 * time.Second

func (c *ChromePDF) Convert(ctx context.Context, htmlBody string) ([]byte, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultConvertTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlBody))

	var pdf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}

			pdf = buf

			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf conversion failed: %w", err)
	}

	return pdf, nil
}
