package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/anrid/intervaltree/pkg/endpoint"
	"github.com/anrid/intervaltree/pkg/interval"
	"github.com/anrid/intervaltree/pkg/session"
)

type printer struct {
	out     io.Writer
	ip      bool
	success *color.Color
	failure *color.Color
	info    *color.Color
	redNode *color.Color
}

func newPrinter(out io.Writer, useColor, ip bool) *printer {
	p := &printer{
		out:     out,
		ip:      ip,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		redNode: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.success, p.failure, p.info, p.redNode} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) banner(m session.Message) {
	if m.Text == "" {
		return
	}
	switch m.Kind {
	case session.Success:
		p.success.Fprintf(p.out, "✔ %s\n", m.Text)
	case session.Error:
		p.failure.Fprintf(p.out, "✘ %s\n", m.Text)
	default:
		p.info.Fprintf(p.out, "• %s\n", m.Text)
	}
}

func (p *printer) linef(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl
}

func (p *printer) intervals(list []interval.Interval) {
	tbl := p.newTable()
	tbl.AppendHeader(table.Row{"#", "Low", "High"})
	for i, iv := range list {
		tbl.AppendRow(table.Row{i + 1, endpoint.Format(iv.Low, p.ip), endpoint.Format(iv.High, p.ip)})
	}
	tbl.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%d intervals", len(list))})
	fmt.Fprintln(p.out, tbl.Render())
}

// tree prints the nodes in pre-order, indented by depth.
func (p *printer) tree(t *interval.Tree) {
	rb := t.Balancing() == interval.RedBlack

	tbl := p.newTable()
	header := table.Row{"Node", "Max"}
	if rb {
		header = append(header, "Color")
	}
	tbl.AppendHeader(header)

	t.Walk(func(v interval.NodeView) bool {
		label := fmt.Sprintf("%s%s [%s, %s]",
			strings.Repeat("  ", v.Depth), v.Side,
			endpoint.Format(v.Interval.Low, p.ip), endpoint.Format(v.Interval.High, p.ip))
		row := table.Row{label, endpoint.Format(v.Max, p.ip)}
		if rb {
			if v.Red {
				row = append(row, p.redNode.Sprint("red"))
			} else {
				row = append(row, "black")
			}
		}
		tbl.AppendRow(row)
		return false
	})
	tbl.AppendFooter(table.Row{fmt.Sprintf("height %d, %d nodes", t.Height(), t.Len())})
	fmt.Fprintln(p.out, tbl.Render())
}
