package handler

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"yuzu/internal/service"
)

// RunHandler 视频生成接口
type RunHandler struct {
	runs *service.RunService
}

// NewRunHandler 创建视频生成处理器
func NewRunHandler(runs *service.RunService) *RunHandler {
	return &RunHandler{runs: runs}
}

// createRunRequest POST /api/v1/runs 请求体
type createRunRequest struct {
	Variant    string `json:"variant" binding:"required"`
	Format     string `json:"format"`
	SourceURL  string `json:"source_url"`
	ResumeID   string `json:"resume_id"`
	ResumeStep string `json:"resume_step"`
}

// Create 发起一次后台生成，立即返回 run id
func (h *RunHandler) Create(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    40001,
			"message": err.Error(),
		})
		return
	}

	runID, err := h.runs.Start(service.RunRequest{
		Variant:    req.Variant,
		Format:     req.Format,
		SourceURL:  req.SourceURL,
		ResumeID:   req.ResumeID,
		ResumeStep: req.ResumeStep,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    40002,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": runID,
	})
}

// Get 查询指定运行的阶段进度
func (h *RunHandler) Get(c *gin.Context) {
	runID := c.Param("id")

	status, err := h.runs.Status(runID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			code = http.StatusNotFound
		}
		c.JSON(code, gin.H{
			"code":    40401,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, status)
}
