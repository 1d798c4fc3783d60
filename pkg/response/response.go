// Package response 提供统一的 HTTP JSON 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Success 返回 200 和 data 包装
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created 返回 201 和 data 包装
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// NoContent 返回 204 空响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithStatus 返回指定状态码的错误响应
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ValidationFailed 返回 422 和字段错误列表
func ValidationFailed(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}
