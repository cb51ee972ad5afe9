package publish

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type progress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// newProgress returns nil when no progress output was asked for; a nil *progress does nothing.
func (p *Publisher) newProgress(phase string, total int) *progress {
	if p.Progress == nil {
		return nil
	}

	pb := mpb.New(mpb.WithWidth(64), mpb.WithOutput(p.Progress))
	bar := pb.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("%s:", phase), decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)
	return &progress{p: pb, bar: bar}
}

func (pr *progress) increment() {
	if pr == nil {
		return
	}
	pr.bar.Increment()
}

func (pr *progress) wait() {
	if pr == nil {
		return
	}
	// Complete the bar even if the count came out short, or Wait would never return.
	pr.bar.SetTotal(-1, true)
	pr.p.Wait()
}
