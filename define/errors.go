package define

import (
	"errors"
	"fmt"
)

// ValidationError 非法的编辑请求（删除最后一帧、导入数据格式错误等），状态保持不变
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "校验失败：" + e.Reason }

// NewValidationError 创建校验错误
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError 设备不可达或请求被拒绝
type TransportError struct {
	Op         string // "connect" 或 "push"
	Address    string
	StatusCode int // 0 表示请求未得到响应
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("设备 %s %s 失败：HTTP %d", e.Address, e.Op, e.StatusCode)
	}
	return fmt.Sprintf("设备 %s %s 失败：%v", e.Address, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError 导入文件不是合法的 JSON
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("解析动画文件失败：%v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// IsValidationError 判断错误链中是否包含 ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransportError 判断错误链中是否包含 TransportError
func IsTransportError(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsParseError 判断错误链中是否包含 ParseError
func IsParseError(err error) bool {
	var p *ParseError
	return errors.As(err, &p)
}
