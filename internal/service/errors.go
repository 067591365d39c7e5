package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrPostNotFound       = errors.New("帖子不存在")
	ErrActionUnknown      = errors.New("未知的动作类型")
	ErrActionDuplicate    = errors.New("重复操作")
	ErrEngagementBusy     = errors.New("操作过于频繁，请稍后重试")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrHideSelf           = errors.New("不能屏蔽自己")
	UnauthorizedError     = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrPostNotFound:         NotFound,
	ErrActionUnknown:        BadRequest,
	ErrActionDuplicate:      BadRequest,
	ErrEngagementBusy:       BadRequest,
	ErrNotificationNotFound: NotFound,
	ErrHideSelf:             BadRequest,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
