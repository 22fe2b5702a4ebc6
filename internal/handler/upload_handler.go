package handler

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dinopage/internal/locale"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize 是单张图片的大小上限。
const MaxUploadSize = 10 << 20

var imageExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadImage 处理图片上传请求
func (a *API) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)

	// 获取上传的文件
	file, err := c.FormFile("image")
	if err != nil {
		if isBodyTooLarge(err) {
			respondError(c, http.StatusRequestEntityTooLarge, locale.MsgUploadTooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, locale.MsgUploadMissing)
		return
	}
	if file.Size > MaxUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, locale.MsgUploadTooLarge)
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, locale.MsgUploadNotImage)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondInternalError(c, err, locale.MsgUploadFailed)
		return
	}
	cfg, format, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgUploadNotImage)
		return
	}
	ext, ok := imageExtensions[format]
	if !ok {
		respondError(c, http.StatusBadRequest, locale.MsgUploadNotImage)
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondInternalError(c, err, locale.MsgUploadFailed)
		return
	}

	// 生成唯一文件名
	filename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, filename)); err != nil {
		respondInternalError(c, err, locale.MsgUploadFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"url":      a.uploadURL + "/" + filename,
		"filename": filename,
		"width":    cfg.Width,
		"height":   cfg.Height,
		"format":   format,
		"size":     file.Size,
	})
}

// isBodyTooLarge 判断请求体是否被 MaxBytesReader 截断
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// multipart 解析有时只保留错误文本
	return strings.Contains(err.Error(), "request body too large")
}
