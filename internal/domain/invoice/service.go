package invoice

import (
	"context"
	"fmt"
	"time"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/tx"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/audit"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/registers/stock"
	"pharmacy/pkg/logger"
)

const entityName = "invoice"

// CreateInput is a new invoice request.
type CreateInput struct {
	Date       time.Time
	Type       Type
	Items      []ItemInput
	CustomerID *id.ID
}

// UpdateInput replaces an invoice's date and item set. An empty Type means
// the stored one; any other value must match it.
type UpdateInput struct {
	Date  time.Time
	Type  Type
	Items []ItemInput
}

// Config wires the coordinator's collaborators.
type Config struct {
	Repo      Repository
	Customers customer.Repository
	Medicines medicine.Repository
	Products  product.Repository
	Ledger    *stock.Ledger
	Resolver  CatalogResolver
	TxManager tx.Manager

	// Audit is optional.
	Audit audit.Store
}

// Service coordinates invoice mutations: every operation locks the rows it
// touches, validates all stock effects against the locked snapshot, then
// writes, as one transaction.
type Service struct {
	repo      Repository
	customers customer.Repository
	txManager tx.Manager
	audit     audit.Store
	targets   map[Type]StockTarget
	hooks     *domain.HookRegistry[*Invoice]
}

// NewService creates the invoice coordinator.
func NewService(cfg Config) *Service {
	return &Service{
		repo:      cfg.Repo,
		customers: cfg.Customers,
		txManager: cfg.TxManager,
		audit:     cfg.Audit,
		targets: map[Type]StockTarget{
			TypeSale:     NewMedicineTarget(cfg.Medicines, cfg.Ledger),
			TypePurchase: NewProductTarget(cfg.Products, cfg.Medicines, cfg.Ledger, cfg.Resolver),
		},
		hooks: domain.NewHookRegistry[*Invoice](),
	}
}

// Hooks returns the registry of after-commit hooks.
func (s *Service) Hooks() *domain.HookRegistry[*Invoice] {
	return s.hooks
}

// CreateInvoice creates an invoice and applies its stock effects.
func (s *Service) CreateInvoice(ctx context.Context, in CreateInput) (*Invoice, error) {
	if !in.Type.Valid() {
		return nil, apperror.NewValidation("invalid invoice type").
			WithDetail("field", "type").
			WithDetail("value", string(in.Type))
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	if err := validateItemInputs(in.Items); err != nil {
		return nil, err
	}
	if err := validateItemRefs(in.Type, in.Items); err != nil {
		return nil, err
	}

	target := s.targets[in.Type]
	var created *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if in.CustomerID != nil {
			ok, err := s.customers.Exists(ctx, *in.CustomerID)
			if err != nil {
				return fmt.Errorf("check customer: %w", err)
			}
			if !ok {
				return apperror.NewNotFound("customer", in.CustomerID.String())
			}
		}

		plan := Diff(nil, linesFromInputs(in.Items))
		snap, err := target.FindForUpdate(ctx, plan.Refs())
		if err != nil {
			return err
		}
		if err := target.Validate(snap, plan); err != nil {
			return err
		}

		inv := NewInvoice(in.Type, in.Date, in.CustomerID)
		inv.Items = buildItems(target, inv.ID, plan, nil, snap)
		inv.RecalculateTotal()

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveItems(ctx, inv.ID, inv.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		if err := s.applyPlan(ctx, target, snap, plan); err != nil {
			return err
		}
		if err := s.recordAudit(ctx, audit.ActionCreate, inv, plan); err != nil {
			return err
		}

		created = inv
		return nil
	})
	if err != nil {
		return nil, s.failure(ctx, "create", err)
	}

	logger.Info(ctx, "invoice created",
		"invoice_id", created.ID,
		"type", created.Type,
		"total", created.TotalAmount.String(),
		"items", len(created.Items),
	)
	s.afterCommit(ctx, domain.AfterCreate, created)
	return created, nil
}

// UpdateInvoice replaces the item set of an invoice and applies the
// difference to stock.
func (s *Service) UpdateInvoice(ctx context.Context, invoiceID id.ID, in UpdateInput) (*Invoice, error) {
	if in.Type != "" && !in.Type.Valid() {
		return nil, apperror.NewValidation("invalid invoice type").
			WithDetail("field", "type").
			WithDetail("value", string(in.Type))
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	if err := validateItemInputs(in.Items); err != nil {
		return nil, err
	}
	if in.Type != "" {
		if err := validateItemRefs(in.Type, in.Items); err != nil {
			return nil, err
		}
	}

	var (
		updated *Invoice
		plan    Plan
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return s.notFound(err, invoiceID)
		}
		if in.Type != "" && in.Type != inv.Type {
			return apperror.NewValidation("invoice type cannot be changed").
				WithDetail("field", "type").
				WithDetail("current", string(inv.Type)).
				WithDetail("requested", string(in.Type))
		}
		if err := validateItemRefs(inv.Type, in.Items); err != nil {
			return err
		}

		target := s.targets[inv.Type]
		plan = Diff(linesFromItems(inv.Items), linesFromInputs(in.Items))

		snap, err := target.FindForUpdate(ctx, plan.Refs())
		if err != nil {
			return err
		}
		if err := target.Validate(snap, plan); err != nil {
			return err
		}

		inv.Items = buildItems(target, inv.ID, plan, inv.Items, snap)
		inv.Date = in.Date
		inv.RecalculateTotal()
		inv.Touch()

		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := s.repo.SaveItems(ctx, inv.ID, inv.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		if err := s.applyPlan(ctx, target, snap, plan); err != nil {
			return err
		}
		if err := s.recordAudit(ctx, audit.ActionUpdate, inv, plan); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err != nil {
		return nil, s.failure(ctx, "update", err)
	}

	logger.Info(ctx, "invoice updated",
		"invoice_id", updated.ID,
		"added", len(plan.Added),
		"removed", len(plan.Removed),
		"changed", len(plan.Changed),
		"total", updated.TotalAmount.String(),
	)
	s.afterCommit(ctx, domain.AfterUpdate, updated)
	return updated, nil
}

// DeleteInvoice reverses every stock effect of an invoice and removes it.
// A purchase whose stock has since been consumed cannot be deleted.
func (s *Service) DeleteInvoice(ctx context.Context, invoiceID id.ID) error {
	var deleted *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return s.notFound(err, invoiceID)
		}

		target := s.targets[inv.Type]
		plan := Diff(linesFromItems(inv.Items), nil)

		snap, err := target.FindForUpdate(ctx, plan.Refs())
		if err != nil {
			return err
		}
		if err := target.Validate(snap, plan); err != nil {
			return err
		}
		if err := s.applyPlan(ctx, target, snap, plan); err != nil {
			return err
		}

		if err := s.repo.DeleteItems(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := s.repo.Delete(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		if err := s.recordAudit(ctx, audit.ActionDelete, inv, plan); err != nil {
			return err
		}

		deleted = inv
		return nil
	})
	if err != nil {
		return s.failure(ctx, "delete", err)
	}

	logger.Info(ctx, "invoice deleted", "invoice_id", deleted.ID, "type", deleted.Type)
	s.afterCommit(ctx, domain.AfterDelete, deleted)
	return nil
}

// GetInvoice returns an invoice with its items.
func (s *Service) GetInvoice(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, apperror.Normalize(s.notFound(err, invoiceID))
	}
	return inv, nil
}

// InvoiceHistory returns up to limit audit records for an invoice, newest
// first. The trail outlives the invoice, so a deleted invoice still has one.
func (s *Service) InvoiceHistory(ctx context.Context, invoiceID id.ID, limit int) ([]audit.Record, error) {
	if s.audit == nil {
		return nil, apperror.NewNotFound("audit trail", invoiceID.String())
	}
	limit, _ = domain.Page(limit, 0)

	records, err := s.audit.History(ctx, entityName, invoiceID, limit)
	if err != nil {
		return nil, apperror.Normalize(err)
	}
	if len(records) == 0 {
		if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ListInvoices returns invoice headers matching filter.
func (s *Service) ListInvoices(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return domain.ListResult[*Invoice]{}, apperror.NewValidation("invalid invoice type").
			WithDetail("field", "type").
			WithDetail("value", string(filter.Type))
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return domain.ListResult[*Invoice]{}, apperror.NewValidation("dateTo must not be before dateFrom").
			WithDetail("field", "dateTo")
	}
	filter.Limit, filter.Offset = domain.Page(filter.Limit, filter.Offset)

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return result, apperror.Normalize(err)
	}
	return result, nil
}

// applyPlan writes the target's own movements, then the retail side effects.
func (s *Service) applyPlan(ctx context.Context, target StockTarget, snap *Snapshot, plan Plan) error {
	if err := target.Apply(ctx, snap, plan); err != nil {
		return err
	}
	return target.ResolveFromPurchase(ctx, snap, plan)
}

// buildItems materializes the proposed side of plan. Refs already on the
// invoice keep their item id and persisted price; new refs take the locked
// catalog price.
func buildItems(target StockTarget, invoiceID id.ID, plan Plan, existing []Item, snap *Snapshot) []Item {
	persisted := make(map[id.ID]Item, len(existing))
	for _, it := range existing {
		if _, dup := persisted[it.Ref()]; !dup {
			persisted[it.Ref()] = it
		}
	}

	kept := plan.Kept()
	items := make([]Item, 0, len(kept))
	for _, c := range kept {
		if old, ok := persisted[c.Ref]; ok {
			item := target.NewItem(invoiceID, c.Ref, c.Proposed, old.Price)
			item.ID = old.ID
			items = append(items, item)
			continue
		}
		items = append(items, target.NewItem(invoiceID, c.Ref, c.Proposed, snap.Price(c.Ref)))
	}
	return items
}

func (s *Service) recordAudit(ctx context.Context, action audit.Action, inv *Invoice, plan Plan) error {
	if s.audit == nil {
		return nil
	}
	err := s.audit.Record(ctx, audit.Entry{
		EntityType: entityName,
		EntityID:   inv.ID,
		Action:     action,
		Changes: map[string]any{
			"type":        inv.Type,
			"date":        inv.Date,
			"totalAmount": inv.TotalAmount.String(),
			"plan":        plan,
		},
	})
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

func (s *Service) notFound(err error, invoiceID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(entityName, invoiceID.String())
	}
	return err
}

// failure logs and normalizes a rolled-back operation.
func (s *Service) failure(ctx context.Context, op string, err error) error {
	if apperror.IsAppError(err) {
		logger.Debug(ctx, "invoice "+op+" rejected", "error", err)
		return err
	}
	logger.Error(ctx, "invoice "+op+" failed", "error", err)
	return apperror.NewInternal(err)
}

// afterCommit runs hooks outside the transaction; failures are logged only.
func (s *Service) afterCommit(ctx context.Context, event domain.HookEvent, inv *Invoice) {
	if err := s.hooks.Run(ctx, event, inv); err != nil {
		logger.Warn(ctx, "invoice after-commit hook failed", "event", event, "invoice_id", inv.ID, "error", err)
	}
}
