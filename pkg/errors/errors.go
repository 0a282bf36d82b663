// Package errors 定义数据加载、筛选与访问控制共用的错误类型
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthenticationFailed 访问密码错误（对用户只展示通用提示）
	ErrAuthenticationFailed = errors.New("访问密码错误，请重试")
	// ErrTooManyAttempts 短时间内尝试次数过多
	ErrTooManyAttempts = errors.New("尝试次数过多，请稍后再试")
	// ErrSchemaMismatch 表结构与已知格式不匹配，可用 errors.Is 判断
	ErrSchemaMismatch = errors.New("数据表结构不匹配")
	// ErrRecordInvalid 数据行内容不合法，可用 errors.Is 判断
	ErrRecordInvalid = errors.New("数据行内容不合法")
)

// SchemaMismatchError 数据表缺少必需列，或配置引用了当前表结构不存在的列
type SchemaMismatchError struct {
	Variant string   // 期望的表结构名称，自动识别失败时为最接近的候选
	Missing []string // 缺失或拼写不一致的列名
	Context string   // 出错位置，如 "表头"、"data.searchable_fields"
}

func (e *SchemaMismatchError) Error() string {
	where := e.Context
	if where == "" {
		where = "表头"
	}
	return fmt.Sprintf("%s: 表结构 %s 的%s缺少列 [%s]",
		ErrSchemaMismatch.Error(), e.Variant, where, strings.Join(e.Missing, ", "))
}

// Is 使 errors.Is(err, ErrSchemaMismatch) 成立
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// RecordInvalidError 某一行某一列的内容不满足表结构约束
type RecordInvalidError struct {
	Row    int
	Field  string
	Reason string
}

func (e *RecordInvalidError) Error() string {
	return fmt.Sprintf("%s: 第 %d 行 %s 列 %s", ErrRecordInvalid.Error(), e.Row, e.Field, e.Reason)
}

// Is 使 errors.Is(err, ErrRecordInvalid) 成立
func (e *RecordInvalidError) Is(target error) bool {
	return target == ErrRecordInvalid
}

// IsDataError 判断是否为运维侧需要处理的数据文件错误
func IsDataError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch) || errors.Is(err, ErrRecordInvalid)
}
