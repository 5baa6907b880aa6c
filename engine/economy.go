package engine

import (
	"fmt"

	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/event"
)

// Economy action names used in errors and rejection events
const (
	ActionHire       = "hire"
	ActionAppliance  = "buy appliance"
	ActionUpgrade    = "upgrade appliance"
	ActionDecoration = "buy decoration"
)

// Offer is the UI triple for one purchasable plus what it targets
// Target is the station index for appliance offers, -1 otherwise
type Offer struct {
	Owned      int    `json:"owned"`
	NextPrice  int    `json:"nextPrice"`
	Affordable bool   `json:"affordable"`
	Available  bool   `json:"available"`
	Target     int    `json:"target"`
	Name       string `json:"name,omitempty"`
}

// Offers is the economy surface, recomputed on every call
type Offers struct {
	Money      int   `json:"money"`
	Employee   Offer `json:"employee"`
	Appliance  Offer `json:"appliance"`
	Upgrade    Offer `json:"upgrade"`
	Decoration Offer `json:"decoration"`
}

// Offers returns the current price list
func (w *World) Offers() Offers {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.offers()
}

func (w *World) offers() Offers {
	return Offers{
		Money:      w.state.Money,
		Employee:   w.employeeOffer(),
		Appliance:  w.applianceOffer(),
		Upgrade:    w.upgradeOffer(),
		Decoration: w.decorationOffer(),
	}
}

func (w *World) finish(o Offer) Offer {
	o.Affordable = o.Available && w.state.Money >= o.NextPrice
	return o
}

func (w *World) employeeOffer() Offer {
	o := Offer{Owned: w.state.NumEmployees, Target: -1}
	if o.Owned < len(w.employees) {
		o.NextPrice, o.Available = w.cat.EmployeePrice(o.Owned)
	}
	return w.finish(o)
}

// applianceOffer targets the next inactive station in layout order
func (w *World) applianceOffer() Offer {
	o := Offer{Owned: len(w.state.ApplianceLevels), Target: -1}
	if o.Owned < len(w.appliances) {
		t := w.applianceType(&w.appliances[o.Owned])
		o.Target = o.Owned
		o.NextPrice = t.BasePrice
		o.Name = t.Name
		o.Available = true
	}
	return w.finish(o)
}

// upgradeOffer targets the lowest-level active station that has a next level, lowest index on ties
func (w *World) upgradeOffer() Offer {
	o := Offer{Owned: len(w.state.ApplianceLevels), Target: -1}
	best := -1
	for i := range w.appliances {
		a := &w.appliances[i]
		if !a.Active || a.Level+1 >= len(w.applianceType(a).Levels) {
			continue
		}
		if best == -1 || a.Level < w.appliances[best].Level {
			best = i
		}
	}
	if best >= 0 {
		o = w.levelUpOffer(best)
	}
	return o
}

func (w *World) levelUpOffer(i int) Offer {
	a := &w.appliances[i]
	o := Offer{Owned: a.Level, Target: i}
	if next, ok := w.applianceType(a).Level(a.Level + 1); ok {
		o.NextPrice = next.Price
		o.Name = next.Name
		o.Available = true
	}
	return w.finish(o)
}

func (w *World) decorationOffer() Offer {
	o := Offer{Owned: w.state.NumDecorations, Target: -1}
	if o.Owned < w.cat.DecorationCount() {
		d := w.cat.DecorationAt(o.Owned)
		o.NextPrice = d.Price
		o.Name = d.Name
		o.Available = true
	}
	return w.finish(o)
}

// reject reports a refused action; nothing has been mutated at this point
func (w *World) reject(action string, err error) error {
	w.statRejected.Add(1)
	w.emit(event.EventPurchaseRejected, &event.RejectedPayload{Action: action, Reason: err.Error()})
	return fmt.Errorf("%s: %w", action, err)
}

// check validates an offer before any mutation
func (w *World) check(action string, o Offer, unavailable error) error {
	if !o.Available {
		return w.reject(action, unavailable)
	}
	if !o.Affordable {
		return w.reject(action, fmt.Errorf("%w: need %d, have %d", ErrNotAffordable, o.NextPrice, w.state.Money))
	}
	return nil
}

func (w *World) credit(delta int) {
	w.state.Money += delta
	w.statMoney.Store(int64(w.state.Money))
	w.emit(event.EventMoneyChanged, &event.MoneyChangedPayload{Money: w.state.Money, Delta: delta})
}

// HireEmployee activates the next pooled employee
func (w *World) HireEmployee() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	o := w.employeeOffer()
	if err := w.check(ActionHire, o, ErrCapacity); err != nil {
		return err
	}

	i := w.state.NumEmployees
	w.credit(-o.NextPrice)
	w.state.NumEmployees++
	w.activateEmployee(i)
	w.save()
	w.emit(event.EventEmployeeHired, &event.PurchasePayload{Index: i, Price: o.NextPrice, Owned: w.state.NumEmployees})
	return nil
}

// BuyAppliance activates the next inactive station at level 0
func (w *World) BuyAppliance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	o := w.applianceOffer()
	if err := w.check(ActionAppliance, o, ErrCapacity); err != nil {
		return err
	}

	i := o.Target
	w.credit(-o.NextPrice)
	w.activateAppliance(i, 0)
	w.state.ApplianceLevels = append(w.state.ApplianceLevels, w.appliances[i].Level)
	w.save()
	w.emit(event.EventApplianceBought, &event.PurchasePayload{
		Index: i, ID: w.appliances[i].TypeID, Price: o.NextPrice, Owned: len(w.state.ApplianceLevels),
	})
	return nil
}

// LevelUpAppliance raises station index by one level
func (w *World) LevelUpAppliance(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.validAppliance(Handle(index)) || !w.appliances[index].Active {
		return w.reject(ActionUpgrade, fmt.Errorf("station %d: %w", index, ErrInvalidAppliance))
	}
	return w.levelUp(w.levelUpOffer(index))
}

// LevelUpNextAppliance upgrades the station the upgrade offer points at
func (w *World) LevelUpNextAppliance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.levelUp(w.upgradeOffer())
}

func (w *World) levelUp(o Offer) error {
	if err := w.check(ActionUpgrade, o, ErrMaxLevel); err != nil {
		return err
	}
	i := o.Target
	if err := w.levelUpAppliance(i); err != nil {
		return w.reject(ActionUpgrade, err)
	}
	w.credit(-o.NextPrice)
	w.state.ApplianceLevels[i] = w.appliances[i].Level
	w.save()
	return nil
}

// BuyDecoration activates the next decoration in catalog order
func (w *World) BuyDecoration() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	o := w.decorationOffer()
	if err := w.check(ActionDecoration, o, ErrCapacity); err != nil {
		return err
	}

	i := w.state.NumDecorations
	w.credit(-o.NextPrice)
	w.decorations[i] = true
	w.state.NumDecorations++
	w.save()
	w.emit(event.EventDecorationBought, &event.PurchasePayload{
		Index: i, ID: w.cat.DecorationAt(i).ID, Price: o.NextPrice, Owned: w.state.NumDecorations,
	})
	return nil
}

// CompleteProduct credits the price of productID
func (w *World) CompleteProduct(productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.completeProduct(-1, productID)
}

// completeProduct credits one delivered order of employee
func (w *World) completeProduct(employee int, productID string) error {
	p, err := w.productPrice(productID)
	if err != nil {
		w.warn(err)
		return err
	}
	w.credit(p)
	w.statOrders.Add(1)
	w.save()
	w.emit(event.EventProductCompleted, &event.ProductCompletedPayload{Employee: employee, ProductID: productID, Price: p})
	return nil
}

func (w *World) productPrice(productID string) (int, error) {
	p, ok := w.cat.ProductByID(productID)
	if !ok {
		return 0, fmt.Errorf("complete %q: %w", productID, catalog.ErrUnknownProduct)
	}
	return p.Price, nil
}
