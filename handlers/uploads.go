package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"epraja-api/models"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func uploadResponse(c *gin.Context, code int, success bool, message string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(code, gin.H{"success": success, "message": message, "data": data})
}

// HandleImage manages restaurant images: one profile image, one cover image,
// and one image per dish. An upload replaces any prior file sharing the same
// base name regardless of extension.
func HandleImage(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}
	if requested := c.PostForm("restaurant_id"); requested != "" && requested != itoa(restaurant.ID) {
		uploadResponse(c, http.StatusForbidden, false, "You can only manage your own restaurant's images", nil)
		return
	}

	action := c.DefaultPostForm("action", "upload")
	switch action {
	case "upload":
		uploadImage(c, restaurant)
	case "delete":
		deleteImage(c, restaurant)
	default:
		uploadResponse(c, http.StatusBadRequest, false, "Invalid action", nil)
	}
}

// validDishID accepts only plain numeric ids. The dish id becomes a file
// base name, so anything else could escape the restaurant's directory.
func validDishID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// filenameBase maps the image type to its fixed base name; dish images are
// keyed by the dish id
func filenameBase(c *gin.Context) (string, bool) {
	switch c.PostForm("image_type") {
	case "dish":
		dishID := c.PostForm("dish_id")
		if !validDishID(dishID) {
			uploadResponse(c, http.StatusBadRequest, false, "dish_id must be a numeric id", nil)
			return "", false
		}
		return dishID, true
	case "profile":
		return "profile", true
	case "cover":
		return "cover", true
	default:
		uploadResponse(c, http.StatusBadRequest, false, "Invalid image type", nil)
		return "", false
	}
}

func uploadImage(c *gin.Context, restaurant *models.Restaurant) {
	base, ok := filenameBase(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		uploadResponse(c, http.StatusBadRequest, false, "Image file is required", nil)
		return
	}
	if fileHeader.Size > maxImageSize {
		uploadResponse(c, http.StatusRequestEntityTooLarge, false, "File too large. Maximum is 5MB", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		uploadResponse(c, http.StatusInternalServerError, false, "Failed to read upload", nil)
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		uploadResponse(c, http.StatusInternalServerError, false, "Failed to read upload", nil)
		return
	}
	mimeType := http.DetectContentType(head[:n])
	ext, allowed := allowedImageTypes[mimeType]
	if !allowed {
		uploadResponse(c, http.StatusUnsupportedMediaType, false, "File type not allowed", nil)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		uploadResponse(c, http.StatusInternalServerError, false, "Failed to read upload", nil)
		return
	}

	targetDir := filepath.Join(uploadDir(), itoa(restaurant.ID))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		uploadResponse(c, http.StatusInternalServerError, false, "Failed to save file", nil)
		return
	}

	// Replace whatever extension the previous image had
	removeMatching(targetDir, base)

	targetFile := filepath.Join(targetDir, base+ext)
	out, err := os.Create(targetFile)
	if err != nil {
		uploadResponse(c, http.StatusInternalServerError, false, "Failed to save file", nil)
		return
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		uploadResponse(c, http.StatusInternalServerError, false, "Failed to save file", nil)
		return
	}

	url := fmt.Sprintf("%s/uploads/%d/%s", baseURL(), restaurant.ID, base+ext)
	uploadResponse(c, http.StatusOK, true, "Upload successful", gin.H{"url": url})
}

func deleteImage(c *gin.Context, restaurant *models.Restaurant) {
	dishID := c.PostForm("dish_id")
	if !validDishID(dishID) {
		uploadResponse(c, http.StatusBadRequest, false, "dish_id must be a numeric id", nil)
		return
	}

	targetDir := filepath.Join(uploadDir(), itoa(restaurant.ID))
	if removeMatching(targetDir, dishID) {
		uploadResponse(c, http.StatusOK, true, "Dish image deleted", nil)
		return
	}
	uploadResponse(c, http.StatusNotFound, false, "Dish image not found", nil)
}

// removeMatching deletes base.* inside dir, returning whether anything went
func removeMatching(dir, base string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, base+".*"))
	removed := false
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			if os.Remove(m) == nil {
				removed = true
			}
		}
	}
	return removed
}

func uploadDir() string {
	if cfg != nil && cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return "uploads"
}

func baseURL() string {
	if cfg != nil && cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return ""
}
