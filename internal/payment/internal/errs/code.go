package errs

type ErrorCode struct {
	Code int
	Msg  string
}

var (
	SystemError       = ErrorCode{Code: 503001, Msg: "系统错误"}
	InvalidParams     = ErrorCode{Code: 503002, Msg: "非法参数"}
	PaymentNotFound   = ErrorCode{Code: 503003, Msg: "支付记录未找到"}
	SessionExpired    = ErrorCode{Code: 503004, Msg: "支付会话已过期"}
	RefundExceeded    = ErrorCode{Code: 503005, Msg: "退款金额超过可退余额"}
	PaymentNotPayable = ErrorCode{Code: 503006, Msg: "当前支付状态不可支付"}
	RefundNotAllowed  = ErrorCode{Code: 503007, Msg: "当前支付状态不可退款"}
)
