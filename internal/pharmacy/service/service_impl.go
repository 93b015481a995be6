package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	"github.com/carelinkhq/carelink/internal/clock"
	"github.com/carelinkhq/carelink/internal/pharmacy/domain"
	"github.com/carelinkhq/carelink/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxCartQuantity = 50

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Audit auditdomain.Service `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	audit auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pharmacy.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) CreateMedicine(ctx context.Context, req domain.CreateMedicineRequest) (domain.Medicine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Medicine{}, domain.ErrInvalidName
	}
	if req.PriceCents <= 0 {
		return domain.Medicine{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	med := domain.Medicine{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertMedicine(ctx, s.db, &med); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Medicine{}, domain.ErrMedicineTaken
		}
		return domain.Medicine{}, err
	}
	return med, nil
}

func (s *Service) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	return s.repo.ListMedicines(ctx, s.db)
}

func (s *Service) GetMedicine(ctx context.Context, id string) (domain.Medicine, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Medicine{}, domain.ErrNotFound
	}

	med, err := s.repo.FindMedicineByID(ctx, s.db, int64(parsed))
	if err != nil {
		return domain.Medicine{}, err
	}
	if med == nil {
		return domain.Medicine{}, domain.ErrNotFound
	}
	return *med, nil
}

func (s *Service) AddToCart(ctx context.Context, req domain.CartMutationRequest) (domain.CartItem, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.CartItem{}, domain.ErrInvalidUser
	}
	if req.Quantity < 1 || req.Quantity > maxCartQuantity {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}

	med, err := s.GetMedicine(ctx, req.MedicineID)
	if err != nil {
		return domain.CartItem{}, err
	}

	now := s.clock.Now()
	var out domain.CartItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindCartItem(ctx, tx, userID, int64(med.ID))
		if err != nil {
			return err
		}
		if existing != nil {
			quantity := existing.Quantity + req.Quantity
			if quantity > maxCartQuantity {
				quantity = maxCartQuantity
			}
			if _, err := s.repo.UpdateCartQuantity(ctx, tx, userID, int64(med.ID), quantity, now); err != nil {
				return err
			}
			existing.Quantity = quantity
			existing.UpdatedAt = now
			out = *existing
			return nil
		}

		item := domain.CartItem{
			ID:         s.genID.Generate(),
			UserID:     userID,
			MedicineID: med.ID,
			Quantity:   req.Quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.UpsertCartItem(ctx, tx, &item); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return out, nil
}

func (s *Service) SetCartQuantity(ctx context.Context, req domain.CartMutationRequest) error {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.ErrInvalidUser
	}
	if req.Quantity < 0 || req.Quantity > maxCartQuantity {
		return domain.ErrInvalidQuantity
	}
	medicineID, err := snowflake.ParseString(strings.TrimSpace(req.MedicineID))
	if err != nil {
		return domain.ErrInvalidID
	}

	if req.Quantity == 0 {
		affected, err := s.repo.DeleteCartItem(ctx, s.db, userID, int64(medicineID))
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	affected, err := s.repo.UpdateCartQuantity(ctx, s.db, userID, int64(medicineID), req.Quantity, s.clock.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) GetCart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListCartItems(ctx, s.db, userID)
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrInvalidUser
	}
	return s.repo.ClearCart(ctx, s.db, userID)
}

func (s *Service) Checkout(ctx context.Context, userID string) (domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Order{}, domain.ErrInvalidUser
	}

	now := s.clock.Now()
	var order domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.repo.ListCartItems(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		orderID := s.genID.Generate()
		var total int64
		lines := make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			med, err := s.repo.FindMedicineByID(ctx, tx, int64(item.MedicineID))
			if err != nil {
				return err
			}
			if med == nil {
				return domain.ErrNotFound
			}
			total += med.PriceCents * int64(item.Quantity)
			lines = append(lines, domain.OrderItem{
				ID:             s.genID.Generate(),
				OrderID:        orderID,
				MedicineID:     med.ID,
				Name:           med.Name,
				UnitPriceCents: med.PriceCents,
				Quantity:       item.Quantity,
				CreatedAt:      now,
			})
		}

		order = domain.Order{
			ID:         orderID,
			UserID:     userID,
			TotalCents: total,
			Status:     domain.OrderPlaced,
			Items:      lines,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.InsertOrder(ctx, tx, &order); err != nil {
			return err
		}
		return s.repo.ClearCart(ctx, tx, userID)
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, userID, "order.checkout", "order", order.ID.String(), map[string]any{
			"total_cents": order.TotalCents,
			"line_count":  len(order.Items),
		})
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int64("total_cents", order.TotalCents),
	)
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListOrdersByUser(ctx, s.db, userID)
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Order{}, domain.ErrInvalidUser
	}
	id, err := snowflake.ParseString(strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, domain.ErrNotFound
	}

	order, err := s.repo.FindOrderByID(ctx, s.db, int64(id))
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil || order.UserID != userID {
		return domain.Order{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) TransitionOrder(ctx context.Context, req domain.OrderTransitionRequest) (domain.Order, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.Order{}, domain.ErrInvalidID
	}

	order, err := s.repo.FindOrderByID(ctx, s.db, int64(id))
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	if !domain.CanTransition(order.Status, req.Status) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	affected, err := s.repo.UpdateOrderStatus(ctx, s.db, int64(id), req.Status, now)
	if err != nil {
		return domain.Order{}, err
	}
	if affected == 0 {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	order.Status = req.Status
	order.UpdatedAt = now
	return *order, nil
}
