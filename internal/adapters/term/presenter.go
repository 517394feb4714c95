package term

import (
	"fmt"
	"io"

	"github.com/CodeEliott/fragranceforecast/internal/domain"
)

// Presenter renders the flow on a terminal: progress and errors on one
// stream, the result block on the other.
type Presenter struct {
	out io.Writer // results panel
	msg io.Writer // loading indicator + error panel
}

func NewPresenter(out, msg io.Writer) *Presenter {
	return &Presenter{out: out, msg: msg}
}

func (p *Presenter) Loading(status string) {
	fmt.Fprintln(p.msg, status)
}

func (p *Presenter) Error(msg string) {
	fmt.Fprintln(p.msg, "Error: "+msg)
}

func (p *Presenter) Result(r domain.FlowResult) {
	fmt.Fprintln(p.out, r.LocationLine())
	fmt.Fprintln(p.out, r.WeatherLine())
	fmt.Fprintln(p.out, "Recommended: "+r.RecommendationLine())
	fmt.Fprintln(p.out, r.ReasonLine())
}
