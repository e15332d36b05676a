package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists       = 10001
	ErrUserNotFound     = 10002
	ErrAuthFailed       = 10003
	ErrTokenInvalid     = 10004
	ErrNoPermission     = 10005
	ErrPasswordMismatch = 10006
	ErrTeacherNotFound  = 10007
	ErrTeacherExists    = 10008

	// 优惠券模块错误 200xx
	ErrCouponNotFound    = 20001
	ErrCouponInactive    = 20002
	ErrCouponCodeExists  = 20003
	ErrCouponOrderLocked = 20004

	// 购物车/订单模块错误 300xx
	ErrCourseNotFound   = 30001
	ErrCartItemNotFound = 30002
	ErrOrderNotFound    = 30003
	ErrVariantNotFound  = 30004
	ErrUploadDisabled   = 30005

	// 支付模块错误 400xx
	ErrPaymentProvider     = 40001
	ErrPaymentInfoMissing  = 40002
	ErrPaymentChannel      = 40003
	ErrPaymentNotification = 40004
	ErrOrderNotPayable     = 40005
	ErrPaymentMismatch     = 40006 // 渠道凭据不属于该订单或金额不足

	// 学习进度模块错误 450xx
	ErrEnrollmentNotFound = 45001
	ErrLessonNotFound     = 45002

	// 通知/评价模块错误 460xx
	ErrNotificationNotFound = 46001
	ErrReviewExists         = 46002

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
