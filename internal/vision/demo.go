package vision

import (
	"context"
	"sync"
)

// demoFrames are canned label reads with real-looking UPCs, matched to
// the demo catalog so scans resolve end to end.
var demoFrames = []string{
	"CORONA EXTRA CERVEZA 080660956435 IMPORTED FROM MEXICO",
	"TITO'S HANDMADE VODKA 619947000021 AUSTIN TEXAS",
	"BUD LIGHT 018200118210 NET 12 FL OZ",
	"JAMESON IRISH WHISKEY 080432400524 TRIPLE DISTILLED",
}

// DemoDetector cycles through canned frames when no Vision credential is
// configured, so the scan flow can be exercised without a camera.
type DemoDetector struct {
	mu   sync.Mutex
	next int
}

func NewDemoDetector() *DemoDetector {
	return &DemoDetector{}
}

func (d *DemoDetector) Detect(ctx context.Context, imageBase64 string) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	frame := demoFrames[d.next%len(demoFrames)]
	d.next++
	return Result{Text: frame, Confidence: 90}, nil
}
