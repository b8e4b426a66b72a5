package admins

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"project/database"
	"project/ledger"
	"project/models"
	"project/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm/clause"
)

// GET /api/admin/properties
// Lists the stored funding targets, newest first.
func ListPropertyMetasHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := paginate(r)

	var totalRows int64
	if err := database.DB.Model(&models.PropertyMeta{}).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var metas []models.PropertyMeta
	if err := database.DB.Order("updated_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&metas).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": metas,
			"pagination": map[string]interface{}{
				"page":       page,
				"limit":      limit,
				"total_rows": totalRows,
			},
		},
	})
}

type SetTargetRequest struct {
	TargetAmount float64 `json:"target_amount"`
}

// PUT /api/admin/properties/{id}/target
// Overrides the funding target. Once a meta row exists its stored value wins
// over any estimate, so this is the authoritative knob.
func SetPropertyTargetHandler(w http.ResponseWriter, r *http.Request) {
	propertyID := strings.TrimSpace(mux.Vars(r)["id"])
	if propertyID == "" || propertyID == "undefined" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "propertyId is required"})
		return
	}

	var req SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if req.TargetAmount < ledger.MinTarget || req.TargetAmount > ledger.MaxTarget {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: fmt.Sprintf("target_amount must be between %d and %d", ledger.MinTarget, ledger.MaxTarget),
		})
		return
	}

	meta := models.PropertyMeta{PropertyID: propertyID, TargetAmount: req.TargetAmount}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_amount", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var saved models.PropertyMeta
	if err := database.DB.Where("property_id = ?", propertyID).First(&saved).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	summary, err := ledger.Default().Summary(propertyID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Target updated",
		Data: map[string]interface{}{
			"meta":    saved,
			"funding": summary,
		},
	})
}

// POST /api/admin/properties/{id}/image
// Accepts a multipart upload, stores it in R2 and records the public URL.
func UploadPropertyImageHandler(w http.ResponseWriter, r *http.Request) {
	propertyID := strings.TrimSpace(mux.Vars(r)["id"])
	if propertyID == "" || propertyID == "undefined" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "propertyId is required"})
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "image file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(header.Filename[strings.LastIndex(header.Filename, ".")+1:])
	switch ext {
	case "jpg", "jpeg", "png", "webp":
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only jpg, jpeg, png or webp images are allowed"})
		return
	}

	objectName := fmt.Sprintf("properties/%s/%d.%s", propertyID, time.Now().UnixNano(), ext)
	if err := utils.UploadToS3(objectName, file, header.Size); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Image upload failed"})
		return
	}

	imageURL := objectName
	if base := strings.TrimRight(os.Getenv("R2_PUBLIC_URL"), "/"); base != "" {
		imageURL = base + "/" + objectName
	} else if signed, signErr := utils.GenerateSignedURL(objectName, 7*24*3600); signErr == nil {
		imageURL = signed
	}

	meta := models.PropertyMeta{PropertyID: propertyID, TargetAmount: ledger.DefaultTarget, ImageURL: &imageURL}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Image uploaded",
		Data:    map[string]interface{}{"image_url": imageURL},
	})
}
