package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/service"
	"enoch-go/pkg/log"
)

// ThemeHandler отдаёт каталог тем и активную тему.
type ThemeHandler struct {
	themeService service.ThemeService
	adminService service.AdminService
}

// NewThemeHandler создаёт новый экземпляр ThemeHandler.
func NewThemeHandler(themeService service.ThemeService, adminService service.AdminService) *ThemeHandler {
	return &ThemeHandler{themeService: themeService, adminService: adminService}
}

// Catalog возвращает полный каталог тем.
func (h *ThemeHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    h.themeService.Catalog(),
	})
}

// Current возвращает активную тему. Ссылка на тему вне каталога
// разрешается в первую тему каталога.
func (h *ThemeHandler) Current(c *gin.Context) {
	cfg, err := h.adminService.GetConfig()
	if err != nil {
		log.Errorf("CurrentTheme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить конфигурацию"})
		return
	}
	theme, ok := h.themeService.Find(cfg.CurrentThemeID)
	if !ok {
		theme = h.themeService.Default()
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": theme})
}
