package errs

var (
	SystemError        = ErrorCode{Code: 502001, Msg: "系统错误"}
	InvalidInput       = ErrorCode{Code: 502002, Msg: "输入非法"}
	EmptyCart          = ErrorCode{Code: 502003, Msg: "购物车勾选为空"}
	MissingShipping    = ErrorCode{Code: 502004, Msg: "收货信息不完整"}
	UnresolvedStore    = ErrorCode{Code: 502005, Msg: "自提店铺与所选商品不匹配"}
	OrderNotFound      = ErrorCode{Code: 502006, Msg: "订单未找到"}
	OrderNotCancelable = ErrorCode{Code: 502007, Msg: "当前状态不可取消"}
	DuplicateRequest   = ErrorCode{Code: 502008, Msg: "重复请求"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
