// Package view draws the shop on a terminal and turns keys into economy actions
package view

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/parameter"
	"github.com/lixenwraith/bunny-coffee/status"
)

// Shop is the world surface the dashboard reads and drives
type Shop interface {
	Snapshot() engine.Snapshot
	HireEmployee() error
	BuyAppliance() error
	LevelUpNextAppliance() error
	BuyDecoration() error
}

// Clock is the scheduler surface behind the pause and reset keys
type Clock interface {
	TogglePause() bool
	IsPaused() bool
	RequestReset()
}

var (
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleOK       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleTooPoor  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleDisabled = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBusy     = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleNotice   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	stylePaused   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// Dashboard renders snapshots and owns the input loop
type Dashboard struct {
	screen tcell.Screen
	shop   Shop
	clock  Clock
	reg    *status.Registry

	mu          sync.Mutex
	notice      string
	noticeStyle tcell.Style
}

// NewDashboard binds a screen that is already initialised
func NewDashboard(screen tcell.Screen, shop Shop, clock Clock, reg *status.Registry) *Dashboard {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Dashboard{screen: screen, shop: shop, clock: clock, reg: reg}
}

// EventTypes implements event.Handler
func (d *Dashboard) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventPurchaseRejected,
		event.EventProductCompleted,
		event.EventEmployeeHired,
		event.EventApplianceBought,
		event.EventApplianceLevelUp,
		event.EventDecorationBought,
		event.EventGameReset,
	}
}

// HandleEvent implements event.Handler; it only updates the notice line
func (d *Dashboard) HandleEvent(ev event.GameEvent) {
	switch p := ev.Payload.(type) {
	case *event.RejectedPayload:
		d.setNotice("Cannot "+p.Action+": "+p.Reason, styleTooPoor)
	case *event.ProductCompletedPayload:
		d.setNotice(fmt.Sprintf("Sold %s for $%d", p.ProductID, p.Price), styleOK)
	case *event.LevelUpPayload:
		d.setNotice(fmt.Sprintf("Station %d is now level %d", p.Index+1, p.Level+1), styleNotice)
	case *event.PurchasePayload:
		switch ev.Type {
		case event.EventEmployeeHired:
			d.setNotice(fmt.Sprintf("Hired employee #%d", p.Owned), styleNotice)
		case event.EventApplianceBought:
			d.setNotice(fmt.Sprintf("Installed %s", p.ID), styleNotice)
		case event.EventDecorationBought:
			d.setNotice(fmt.Sprintf("Placed %s", p.ID), styleNotice)
		}
	default:
		if ev.Type == event.EventGameReset {
			d.setNotice("Game reset", styleNotice)
		}
	}
}

func (d *Dashboard) setNotice(msg string, style tcell.Style) {
	d.mu.Lock()
	d.notice, d.noticeStyle = msg, style
	d.mu.Unlock()
}

// Notice returns the current status line
func (d *Dashboard) Notice() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notice
}

// HandleKey applies one key press; returns false when the user quits
func (d *Dashboard) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	var err error
	switch ev.Rune() {
	case 'q':
		return false
	case 'e':
		err = d.shop.HireEmployee()
	case 'a':
		err = d.shop.BuyAppliance()
	case 'u':
		err = d.shop.LevelUpNextAppliance()
	case 'd':
		err = d.shop.BuyDecoration()
	case 'p':
		if d.clock != nil {
			if d.clock.TogglePause() {
				d.setNotice("Paused", styleNotice)
			} else {
				d.setNotice("Resumed", styleNotice)
			}
		}
	case 'r':
		if d.clock != nil {
			d.clock.RequestReset()
		}
	}
	if err != nil {
		d.setNotice(err.Error(), styleTooPoor)
	}
	return true
}

// Run polls input and redraws at the frame interval, plus on every world update
// Returns when the user quits or ctx ends
func (d *Dashboard) Run(ctx context.Context, updates <-chan struct{}) {
	input := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case input <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	d.Draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-input:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !d.HandleKey(ev) {
					return
				}
			case *tcell.EventResize:
				d.screen.Sync()
			}
			d.Draw()
		case <-updates:
			d.Draw()
		case <-ticker.C:
			d.Draw()
		}
	}
}

// Draw renders one frame from a fresh snapshot
func (d *Dashboard) Draw() {
	snap := d.shop.Snapshot()
	s := d.screen
	s.Clear()
	_, h := s.Size()

	y := 0
	x := d.text(0, y, styleTitle, "BUNNY COFFEE")
	x = d.text(x+2, y, styleText, fmt.Sprintf("$%d", snap.Money))
	x = d.text(x+2, y, styleLabel, fmt.Sprintf("tick %d", snap.Tick))
	if d.clock != nil && d.clock.IsPaused() {
		d.text(x+2, y, stylePaused, " PAUSED ")
	}

	y += 2
	d.offer(y, 'e', "Hire employee", snap.Offers.Employee)
	d.offer(y+1, 'a', "Buy station", snap.Offers.Appliance)
	d.offer(y+2, 'u', "Upgrade station", snap.Offers.Upgrade)
	d.offer(y+3, 'd', "Decoration", snap.Offers.Decoration)

	y += 5
	d.strip(y, "Queue", snap.Queue)
	d.strip(y+1, "Bar", snap.Bars)
	d.strip(y+2, "Tables", snap.Tables)
	d.strip(y+3, "Idle", snap.Idle)

	y += 5
	d.text(0, y, styleTitle, "Stations")
	y++
	for _, a := range snap.Appliances {
		if !a.Active {
			continue
		}
		style := styleText
		if a.Busy {
			style = styleBusy
		}
		line := fmt.Sprintf("%d %-18s %-14s %-10s", a.Index+1, a.Name, a.LevelName, a.Status)
		if a.Product != "" {
			line += fmt.Sprintf(" %s %.1fs", a.Product, a.Remaining)
		}
		d.text(2, y, style, line)
		y++
	}

	y++
	d.text(0, y, styleTitle, "Staff")
	y++
	for _, e := range snap.Employees {
		line := fmt.Sprintf("%d %-26s", e.Index+1, e.Status)
		if e.Product != "" {
			line += " " + e.Product
		}
		d.text(2, y, styleText, line)
		y++
	}

	y++
	d.text(0, y, styleTitle, fmt.Sprintf("Customers (%d)", len(snap.Customers)))
	y++
	for _, c := range snap.Customers {
		if y >= h-2 {
			d.text(2, y, styleLabel, "...")
			break
		}
		line := fmt.Sprintf("%-3d %-8s %-22s", c.Index, c.TypeID, c.Status)
		if c.Product != "" {
			line += " " + c.Product
		}
		d.text(2, y, styleText, line)
		y++
	}

	d.footer(h)
	s.Show()
}

func (d *Dashboard) offer(y int, key rune, label string, o engine.Offer) {
	style := styleOK
	switch {
	case !o.Available:
		style = styleDisabled
	case !o.Affordable:
		style = styleTooPoor
	}
	x := d.text(0, y, styleLabel, fmt.Sprintf("[%c] ", key))
	x = d.text(x, y, style, fmt.Sprintf("%-16s", label))
	if !o.Available {
		d.text(x, y, styleDisabled, fmt.Sprintf("owned %d  sold out", o.Owned))
		return
	}
	text := fmt.Sprintf("owned %d  $%d", o.Owned, o.NextPrice)
	if o.Name != "" {
		text += "  " + o.Name
	}
	d.text(x, y, style, text)
}

func (d *Dashboard) strip(y int, label string, busy []bool) {
	x := d.text(0, y, styleLabel, fmt.Sprintf("%-7s", label))
	var b strings.Builder
	used := 0
	for _, v := range busy {
		if v {
			b.WriteRune('■')
			used++
		} else {
			b.WriteRune('□')
		}
	}
	x = d.text(x, y, styleText, b.String())
	d.text(x+1, y, styleLabel, fmt.Sprintf("%d/%d", used, len(busy)))
}

func (d *Dashboard) footer(h int) {
	ints := d.reg.Ints
	line := fmt.Sprintf("served %d  orders %d  rejected %d  [p]ause [r]eset [q]uit",
		ints.Get(status.CustomersServed).Load(),
		ints.Get(status.OrdersCompleted).Load(),
		ints.Get(status.EconomyRejected).Load())
	d.text(0, h-1, styleLabel, line)

	d.mu.Lock()
	notice, style := d.notice, d.noticeStyle
	d.mu.Unlock()
	if notice != "" {
		d.text(0, h-2, style, notice)
	}
}

// text draws s from (x,y) and returns the column after it
func (d *Dashboard) text(x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
