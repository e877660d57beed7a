package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
	repo "github.com/lepelaka/kiosk-order/internal/repository"
)

// NumberGenerator は注文番号の採番
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type OrderUsecase struct {
	tx     repo.TransactionManager
	numGen NumberGenerator
	logger *slog.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, numGen NumberGenerator, logger *slog.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, numGen: numGen, logger: logger}
}

type OrderItemInput struct {
	ProductID int64
	Quantity  int64
}

type CreateOrderInput struct {
	TerminalID int64
	Items      []OrderItemInput
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	TerminalID  int64             `json:"terminal_id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// Create は注文確定。端末確認 → ロック取得 → 在庫検証 → 減算 → 保存 を1トランザクションで行う。
// 検証は全商品分を先に済ませてから減算するので、一部だけ適用された状態は外から見えない。
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (int64, error) {
	if len(in.Items) == 0 {
		return 0, ErrEmptyOrderItems()
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return 0, ErrInvalidQuantity(it.ProductID, it.Quantity)
		}
	}
	if in.TerminalID <= 0 {
		return 0, ErrTerminalNotFound(in.TerminalID)
	}

	// 同じ商品が複数行で来たら数量を合算する
	demands := make(map[int64]int64, len(in.Items))
	for _, it := range in.Items {
		demands[it.ProductID] += it.Quantity
	}

	// 重複を除いたidを昇順に並べる。
	// 同時注文が同じ商品集合に触れても、ロック取得順が常に一致するのでデッドロックしない
	productIDs := make([]int64, 0, len(demands))
	for id := range demands {
		productIDs = append(productIDs, id)
	}
	slices.Sort(productIDs)

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 端末確認
		if _, err := r.Terminals().FindByID(ctx, in.TerminalID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrTerminalNotFound(in.TerminalID)
			}
			return err
		}

		// 排他ロック取得（ソート済みidの一括SELECT FOR UPDATE）
		products, err := r.Products().FindByIDsForUpdate(ctx, productIDs)
		if err != nil {
			return err
		}
		if len(products) != len(productIDs) {
			return ErrProductNotFound(missingIDs(productIDs, products))
		}

		// 全商品を検証してから減算に入る
		for _, p := range products {
			demanded := demands[p.ID]
			if !p.IsActive {
				return ErrInactiveProduct(p.ID)
			}
			if p.Stock < demanded {
				return ErrInsufficientStock(p.ID, demanded, p.Stock)
			}
		}

		// 注文番号。カウンタの消費はこのTxの外なので、ロールバックしても番号は戻らない
		orderNumber, err := u.numGen.Generate(ctx)
		if err != nil {
			u.logger.Error("order number generation failed", "terminal_id", in.TerminalID, "error", err)
			return ErrOrderNumberGeneration()
		}

		// 減算とスナップショット
		orderItems := make([]model.OrderItem, 0, len(products))
		var total int64
		for _, p := range products {
			demanded := demands[p.ID]

			ok, err := r.Products().DecrementStock(ctx, p.ID, demanded)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock(p.ID, demanded, p.Stock)
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            demanded,
			})
			total += demanded * p.Price
		}

		id, err := r.Orders().Create(ctx, model.Order{
			OrderNumber: orderNumber,
			TerminalID:  in.TerminalID,
			Status:      model.OrderStatusPending,
			TotalAmount: total,
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, id, orderItems); err != nil {
			return err
		}

		orderID = id
		return nil
	})

	if err != nil {
		return 0, u.translateError(ctx, err, "create order")
	}
	return orderID, nil
}

func (u *OrderUsecase) GetByID(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, ErrOrderNotFoundByID(orderID)
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFoundByID(orderID)
		}
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, u.translateError(ctx, err, "get order")
	}
	return out, nil
}

func (u *OrderUsecase) GetByNumber(ctx context.Context, orderNumber string) (OrderOutput, error) {
	if orderNumber == "" {
		return OrderOutput{}, ErrOrderNotFoundByNumber(orderNumber)
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByNumber(ctx, orderNumber)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFoundByNumber(orderNumber)
		}
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, u.translateError(ctx, err, "get order by number")
	}
	return out, nil
}

func (u *OrderUsecase) Confirm(ctx context.Context, orderID int64) error {
	return u.updateStatus(ctx, orderID, (*model.Order).Confirm)
}

func (u *OrderUsecase) Complete(ctx context.Context, orderID int64) error {
	return u.updateStatus(ctx, orderID, (*model.Order).Complete)
}

func (u *OrderUsecase) updateStatus(ctx context.Context, orderID int64, transition func(*model.Order) error) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFoundByID(orderID)
		}
		if err != nil {
			return err
		}

		if err := transition(&o); err != nil {
			var ite *model.InvalidStatusTransitionError
			if errors.As(err, &ite) {
				return ErrInvalidStatusTransition(ite.From, ite.To)
			}
			return err
		}

		return r.Orders().UpdateStatus(ctx, o.ID, o.Status)
	})

	return u.translateError(ctx, err, "update order status")
}

// Cancel はPENDINGの注文を取り消して在庫を戻す。
// 商品ロックは明細の保存順に1件ずつ取る。確定処理のソート順ロックとは
// 順序が揃わないため、同時実行でデッドロックしたTxはDBが中断し、
// 呼び出し側にはリトライ可能エラーとして返る。
func (u *OrderUsecase) Cancel(ctx context.Context, orderID int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFoundByID(orderID)
		}
		if err != nil {
			return err
		}

		if !o.IsCancellable() {
			return ErrCannotCancelOrder(o.ID, o.Status)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}

		// 減算した分をそのまま戻す。商品の現在の価格・名前には影響されない
		for _, it := range items {
			if _, err := r.Products().FindByIDForUpdate(ctx, it.ProductID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrProductNotFound([]int64{it.ProductID})
				}
				return err
			}
			if err := r.Products().IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		if err := o.Cancel(); err != nil {
			var ite *model.InvalidStatusTransitionError
			if errors.As(err, &ite) {
				return ErrInvalidStatusTransition(ite.From, ite.To)
			}
			return err
		}

		return r.Orders().UpdateStatus(ctx, o.ID, o.Status)
	})

	return u.translateError(ctx, err, "cancel order")
}

// 業務エラーはそのまま、Tx中断はリトライ可能として返し、残りは内部エラーに落とす
func (u *OrderUsecase) translateError(ctx context.Context, err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrLockTimeout) || errors.Is(err, repo.ErrDeadlock) {
		u.logger.Warn("transaction aborted", "op", op, "error", err)
		return ErrTransactionAborted()
	}
	u.logger.ErrorContext(ctx, "unexpected failure", "op", op, "error", err)
	return ErrInternal()
}

func missingIDs(requested []int64, found []model.Product) []int64 {
	foundSet := make(map[int64]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}
	missing := make([]int64, 0)
	for _, id := range requested {
		if _, ok := foundSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		TerminalID:  o.TerminalID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
