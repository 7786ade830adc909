package order

import (
	"context"

	"shopkit/cart"
	"shopkit/errors"
	"shopkit/invoice"
	"shopkit/logging"
	"shopkit/notify"
	"shopkit/validation"
)

// Config 下单服务配置
type Config struct {
	// Cart 购物车，必填
	Cart *cart.Store

	// Gateway 订单后端，必填
	Gateway IGateway

	// Notifier 为空时不发事件
	Notifier notify.Notifier

	// Logger 为空时使用全局日志器
	Logger logging.Logger
}

// Service 下单服务
type Service struct {
	cart     *cart.Store
	gateway  IGateway
	notifier notify.Notifier
	logger   logging.Logger
}

// NewService 创建下单服务
func NewService(cfg Config) *Service {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NoopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger()
	}
	return &Service{
		cart:     cfg.Cart,
		gateway:  cfg.Gateway,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
}

// Checkout 校验收货信息并提交当前购物车。
// 只有后端确认成功后才清空购物车；提交失败时
// 购物车原样保留，用户可修正后重试。
func (s *Service) Checkout(ctx context.Context, info CheckoutInfo) (*Confirmation, error) {
	if err := validateCheckoutInfo(info); err != nil {
		return nil, err
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, errors.NewError(errors.ErrCodeValidation, "Giỏ hàng trống")
	}

	req := Request{
		CustomerName: info.FullName,
		PhoneNumber:  info.Phone,
		Address:      info.Address,
		Note:         info.Note,
		PaymentType:  info.PaymentType,
		TotalPrice:   s.cart.TotalPrice(),
		Items:        make([]RequestItem, 0, len(lines)),
	}
	for _, line := range lines {
		req.Items = append(req.Items, RequestItem{
			ProductID: line.ProductID,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	conf, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Warn(ctx, "订单提交失败",
			logging.Int("items", len(req.Items)),
			logging.Error(err))
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		// 订单已成功，清空失败只记录，不影响下单结果
		s.logger.Warn(ctx, "下单后清空购物车失败", logging.Error(err))
	}

	s.publish(ctx, notify.EventOrderCheckedOut, map[string]any{
		"invoiceId":  conf.InvoiceID,
		"totalPrice": req.TotalPrice,
		"itemCount":  len(req.Items),
	})
	return conf, nil
}

// Cancel 客户取消订单。只有未发货的订单
// （PENDING、CONFIRMED）可以取消。
func (s *Service) Cancel(ctx context.Context, id int64, current invoice.Status) error {
	if !invoice.CanCancelCustomer(current) {
		return errors.NewError(errors.ErrCodeInvalidTransition,
			"Không thể hủy đơn hàng ở trạng thái này").
			WithDetail("status", string(current))
	}

	if err := s.gateway.CancelOrder(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, notify.EventOrderCancelled, map[string]any{
		"invoiceId": id,
	})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, payload any) {
	if err := s.notifier.Publish(ctx, notify.NewEvent(eventType, payload)); err != nil {
		s.logger.Warn(ctx, "订单事件发布失败",
			logging.String("type", eventType),
			logging.Error(err))
	}
}

func validateCheckoutInfo(info CheckoutInfo) error {
	if err := validation.ValidateRequired(info.FullName, "họ tên"); err != nil {
		return err
	}
	if err := validation.ValidateStringLength(info.FullName, "Họ tên", 2, 100); err != nil {
		return err
	}
	if err := validation.ValidatePhone(info.Phone); err != nil {
		return err
	}
	if err := validation.ValidateRequired(info.Address, "địa chỉ"); err != nil {
		return err
	}
	return validation.ValidatePaymentType(info.PaymentType)
}
