package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// RoutingStore is the slice of a unit of work routing needs.
// ports.UnitOfWork satisfies it.
type RoutingStore interface {
	OrderRepository() ports.OrderRepository
	StationRepository() ports.StationRepository
	StationQueueRepository() ports.StationQueueRepository
}

// RoutedItem is one line placed on a station by a routing pass.
type RoutedItem struct {
	ProductName     string
	Quantity        int
	Priority        int
	PreparationTime int
}

// StationAssignment groups the lines routed to one station.
type StationAssignment struct {
	StationType station.Type
	Items       []RoutedItem
}

// UnroutedItem records a line routing could not place because no active
// station of the required type exists. The rest of the order still routes.
type UnroutedItem struct {
	ProductName string
	StationType station.Type
	Err         error
}

// RouteResult is the outcome of one routing pass: assignments keyed by
// station name, plus the lines that could not be placed.
type RouteResult struct {
	Assignments map[string]StationAssignment
	Unrouted    []UnroutedItem
}

// classifierRule is one link of the routing rule list: a predicate over a
// line's category and product name keywords, a target station type, and the
// priority bonus for lines it claims.
type classifierRule struct {
	name   string
	target station.Type
	bonus  int
	match  func(category menu.CategoryType, loweredName string) bool
}

func containsAny(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// classifierRules returns the rule list in evaluation order. The first
// matching rule wins; the final rule matches everything and routes to the
// main kitchen.
func classifierRules() []classifierRule {
	hotKeywords := []string{"caliente", "café", "cappuccino", "latte", "espresso", "chocolate", "té", "infusion"}
	coldKeywords := []string{"frí", "frío", "jugo", "batido", "smoothie", "limonada", "helado", "frozen"}
	bakeryKeywords := []string{"pan", "croissant", "tostada", "bagel", "muffin", "galleta", "pretzel"}
	foodKeywords := []string{"sandwich", "ensalada", "hamburguesa", "pizza", "pasta", "sopa", "plato", "bowl"}
	dessertKeywords := []string{"pastel", "torta", "helado", "brownie", "cheesecake", "flan", "mousse", "postre"}

	return []classifierRule{
		{
			name:   "hot beverages",
			target: station.TypeHotBeverages,
			bonus:  15,
			match: func(category menu.CategoryType, name string) bool {
				return category == menu.CategoryBeverages && containsAny(name, hotKeywords)
			},
		},
		{
			name:   "cold beverages",
			target: station.TypeColdBeverages,
			bonus:  10,
			match: func(category menu.CategoryType, name string) bool {
				return category == menu.CategoryBeverages && containsAny(name, coldKeywords)
			},
		},
		{
			name:   "bakery",
			target: station.TypeBakery,
			bonus:  12,
			match: func(category menu.CategoryType, name string) bool {
				return category == menu.CategoryStarters && containsAny(name, bakeryKeywords)
			},
		},
		{
			name:   "main kitchen",
			target: station.TypeKitchen,
			bonus:  20,
			match: func(category menu.CategoryType, name string) bool {
				return category == menu.CategoryMains || containsAny(name, foodKeywords)
			},
		},
		{
			name:   "desserts",
			target: station.TypeDesserts,
			bonus:  5,
			match: func(category menu.CategoryType, name string) bool {
				return category == menu.CategoryDesserts || containsAny(name, dessertKeywords)
			},
		},
		{
			name:   "default",
			target: station.TypeKitchen,
			bonus:  0,
			match: func(menu.CategoryType, string) bool {
				return true
			},
		},
	}
}

// Router assigns order lines to preparation stations. Classification walks
// an ordered rule list; the computed priority only orders the routing output
// and never changes which rule wins.
//
// Router also owns item completion, including the cross-component side
// effect that completing an order's last pending queue entry auto-advances
// an IN_PREPARATION order to READY. The router, not the caller, decides when
// an order is fully prepared.
type Router struct {
	rules     []classifierRule
	lifecycle *Lifecycle
	clock     ports.Clock
	logger    *slog.Logger
}

// NewRouter creates the routing service with its collaborators.
func NewRouter(lifecycle *Lifecycle, clock ports.Clock, logger *slog.Logger) (*Router, error) {
	if lifecycle == nil {
		return nil, errs.NewValueIsRequiredError("lifecycle")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Router{
		rules:     classifierRules(),
		lifecycle: lifecycle,
		clock:     clock,
		logger:    logger.With("component", "router"),
	}, nil
}

// Route assigns every line of the order to a station queue.
//
// Lines are first classified and prioritised, then assigned in descending
// priority order. A missing active station fails only that line, recorded in
// the result's Unrouted list; an incomplete queue entry already present for
// (station, order) is reused rather than duplicated.
func (r *Router) Route(ctx context.Context, store RoutingStore, o *order.Order) (RouteResult, error) {
	if err := o.Validate(); err != nil {
		return RouteResult{}, err
	}

	type classified struct {
		line     *order.Line
		rule     classifierRule
		priority int
	}

	lines := o.Lines()
	items := make([]classified, 0, len(lines))
	for _, line := range lines {
		rule := r.ruleFor(ctx, line)
		items = append(items, classified{
			line:     line,
			rule:     rule,
			priority: r.priority(line, rule),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].priority > items[j].priority
	})

	result := RouteResult{Assignments: make(map[string]StationAssignment)}
	for _, item := range items {
		target, err := r.assign(ctx, store, o, item.rule.target)
		if err != nil {
			if errors.Is(err, errs.ErrStationNotFound) {
				r.logger.WarnContext(ctx, "line not routed",
					"order_id", o.ID().String(),
					"product", item.line.ProductName(),
					"station_type", item.rule.target.String(),
				)
				result.Unrouted = append(result.Unrouted, UnroutedItem{
					ProductName: item.line.ProductName(),
					StationType: item.rule.target,
					Err:         err,
				})
				continue
			}
			return RouteResult{}, err
		}

		assignment, ok := result.Assignments[target.Name()]
		if !ok {
			assignment = StationAssignment{StationType: target.StationType()}
		}
		assignment.Items = append(assignment.Items, RoutedItem{
			ProductName:     item.line.ProductName(),
			Quantity:        item.line.Quantity(),
			Priority:        item.priority,
			PreparationTime: item.line.PreparationTime(),
		})
		result.Assignments[target.Name()] = assignment
	}

	r.logger.InfoContext(ctx, "order routed",
		"order_id", o.ID().String(),
		"stations", len(result.Assignments),
		"unrouted", len(result.Unrouted),
	)
	return result, nil
}

// CompleteItem marks the order's pending queue entry on the given station
// type as complete. When that was the order's last pending entry anywhere
// and the order is IN_PREPARATION, the order auto-advances to READY.
func (r *Router) CompleteItem(ctx context.Context, store RoutingStore, stationType station.Type, orderID kernel.UUID) error {
	if err := stationType.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	target, err := store.StationRepository().GetByType(ctx, stationType)
	if err != nil {
		return err
	}

	entry, err := store.StationQueueRepository().GetIncomplete(ctx, target.ID(), orderID)
	if err != nil {
		return err
	}

	if err = entry.Complete(r.clock.Now()); err != nil {
		return err
	}
	if err = store.StationQueueRepository().Update(ctx, entry); err != nil {
		return err
	}

	pending, err := store.StationQueueRepository().CountIncompleteForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	o, err := store.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status() != order.InPreparation {
		return nil
	}

	_, err = r.lifecycle.Advance(ctx, store, o)
	return err
}

// ruleFor returns the first rule claiming the line. The terminal rule always
// matches, so classification never fails; it logs when only the fallback
// applied.
func (r *Router) ruleFor(ctx context.Context, line *order.Line) classifierRule {
	name := strings.ToLower(line.ProductName())
	for i, rule := range r.rules {
		if rule.match(line.Category(), name) {
			if i == len(r.rules)-1 {
				r.logger.WarnContext(ctx, "line not classified, routing to main kitchen",
					"product", line.ProductName(),
				)
			}
			return rule
		}
	}
	// unreachable: the last rule matches everything
	return r.rules[len(r.rules)-1]
}

// priority scores a line for output ordering: preparation minutes, a bump
// for hot items, plus the winning rule's bonus.
func (r *Router) priority(line *order.Line, rule classifierRule) int {
	priority := line.PreparationTime()
	if strings.Contains(strings.ToLower(line.ProductName()), "caliente") {
		priority += 10
	}
	return priority + rule.bonus
}

// assign resolves the active station for a type and ensures the (station,
// order) pair has exactly one pending queue entry.
func (r *Router) assign(ctx context.Context, store RoutingStore, o *order.Order, stationType station.Type) (*station.Station, error) {
	target, err := store.StationRepository().GetActiveByType(ctx, stationType)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewStationNotFoundError(stationType.String())
		}
		return nil, err
	}

	_, err = store.StationQueueRepository().GetIncomplete(ctx, target.ID(), o.ID())
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	entry, err := station.NewQueueEntry(kernel.NewUUID(), target.ID(), o.ID(), r.clock.Now())
	if err != nil {
		return nil, err
	}
	if err = store.StationQueueRepository().Add(ctx, entry); err != nil {
		return nil, err
	}
	return target, nil
}
