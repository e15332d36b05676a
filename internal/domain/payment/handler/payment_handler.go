package handler

import (
	"net/http"
	"course_mall/internal/domain/payment/model"
	"course_mall/internal/domain/payment/service"
	"course_mall/internal/domain/payment/strategy"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CheckoutInput struct {
	OrderNo string `json:"order_no" form:"order_no" binding:"required"`
}

type PaymentSuccessInput struct {
	OrderNo       string `json:"order_no" binding:"required"`
	SessionID     string `json:"session_id"`
	PaypalOrderID string `json:"paypal_order_id"`
}

// StripeCheckout 创建 Stripe 支付会话并跳转
// @Summary 创建 Stripe 支付会话
// @Tags Payment
// @Accept json,x-www-form-urlencoded
// @Param input body CheckoutInput true "Order"
// @Success 303 "Redirect to Stripe"
// @Router /payment/checkout/stripe [post]
func (h *PaymentHandler) StripeCheckout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	checkout, err := h.service.CreateCheckout(c.Request.Context(), strategy.ChannelStripe, input.OrderNo)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, checkout.RedirectURL)
}

// AlipayCheckout 返回支付宝电脑网站支付地址
// @Summary 支付宝支付
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body CheckoutInput true "Order"
// @Success 200 {object} response.Response{data=strategy.Checkout}
// @Router /payment/checkout/alipay [post]
func (h *PaymentHandler) AlipayCheckout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	checkout, err := h.service.CreateCheckout(c.Request.Context(), strategy.ChannelAlipay, input.OrderNo)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, checkout)
}

// PaymentSuccess 前端支付完成后对账
// @Summary 支付结果确认
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body PaymentSuccessInput true "Payment Info"
// @Success 200 {object} response.Response{data=model.Result}
// @Router /payment/success [post]
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	var input PaymentSuccessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.Reconcile(c.Request.Context(), service.ReconcileInput{
		OrderNo:       input.OrderNo,
		SessionID:     input.SessionID,
		PaypalOrderID: input.PaypalOrderID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, outcomeMessage(res.Outcome), res)
}

// AlipayNotify 支付宝回调
// @Summary 支付宝回调
// @Tags Payment
// @Router /payment/notify/alipay [post]
func (h *PaymentHandler) AlipayNotify(c *gin.Context) {
	// 支付宝回调是 POST Form 格式
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusOK, "fail")
		return
	}
	if _, err := h.service.HandleNotify(c.Request.Context(), strategy.ChannelAlipay, c.Request.Form); err != nil {
		c.String(http.StatusOK, "fail") // 告诉支付宝处理失败，它会重试
		return
	}
	c.String(http.StatusOK, "success")
}

func outcomeMessage(outcome string) string {
	switch outcome {
	case model.OutcomePaid:
		return "Payment Successful"
	case model.OutcomeAlreadyPaid:
		return "Already Paid"
	case model.OutcomeFailed, model.OutcomeAlreadyFailed:
		return "Payment Failed"
	default:
		return "Payment Not Completed"
	}
}
