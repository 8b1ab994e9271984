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
	ErrParamInvalid     = errors.New("参数错误")
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrPostLocked       = errors.New("帖子已锁定")
	ErrRevisionNotFound = errors.New("历史版本不存在")
	ErrActionDuplicate  = errors.New("重复操作")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrPostNotFound:     NotFound,
	ErrPostLocked:       BadRequest,
	ErrRevisionNotFound: NotFound,
	ErrActionDuplicate:  BadRequest,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}
