package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON 본문이 비어 있어도 허용하는 바인딩
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseOptionalTime RFC3339 문자열 포인터를 time 포인터로 변환
func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
