package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func automakerRouter() *gin.Engine {
	router := setupTestRouter()
	router.Use(mockAuthMiddleware(1, models.RoleAdmin))
	router.GET("/automakers", ListAutomakers)
	router.GET("/automakers/:id", GetAutomaker)
	router.POST("/automakers", CreateAutomaker)
	router.PUT("/automakers/:id", UpdateAutomaker)
	router.DELETE("/automakers/:id", DeleteAutomaker)
	return router
}

func TestCreateAutomaker(t *testing.T) {
	setupTestDB(t)
	router := automakerRouter()

	w := performJSON(router, http.MethodPost, "/automakers", map[string]string{"name": "Toyota"})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Toyota", data["name"])

	w = performJSON(router, http.MethodPost, "/automakers", map[string]string{"name": "Toyota"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTOMAKER_EXISTS", errorCode(t, w))

	w = performJSON(router, http.MethodPost, "/automakers", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, http.MethodPost, "/automakers", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestListAndGetAutomakers(t *testing.T) {
	db, _ := setupTestDB(t)
	seedAutomaker(t, db, "Toyota")
	honda := seedAutomaker(t, db, "Honda")
	router := automakerRouter()

	w := performJSON(router, http.MethodGet, "/automakers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeResponse(t, w)["data"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "Honda", list[0].(map[string]interface{})["name"], "automakers are sorted by name")

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/automakers/%d", honda.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/automakers/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "AUTOMAKER_NOT_FOUND", errorCode(t, w))
}

func TestUpdateAutomaker(t *testing.T) {
	db, _ := setupTestDB(t)
	toyota := seedAutomaker(t, db, "Toyota")
	seedAutomaker(t, db, "Honda")
	router := automakerRouter()

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/automakers/%d", toyota.ID), map[string]string{"name": "Toyota Motor"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Toyota Motor", decodeResponse(t, w)["data"].(map[string]interface{})["name"])

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/automakers/%d", toyota.ID), map[string]string{"name": "Toyota Motor"})
	assert.Equal(t, http.StatusOK, w.Code, "keeping the same name is not a conflict")

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/automakers/%d", toyota.ID), map[string]string{"name": "Honda"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performJSON(router, http.MethodPut, "/automakers/999", map[string]string{"name": "Nissan"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAutomaker_Cascades(t *testing.T) {
	db, images := setupTestDB(t)
	toyota := seedAutomaker(t, db, "Toyota")
	honda := seedAutomaker(t, db, "Honda")
	router := automakerRouter()
	router.POST("/cars", CreateCar)

	var imagePaths []string
	for i := 0; i < 3; i++ {
		w := performMultipart(router, http.MethodPost, "/cars", carFields(toyota.ID), "toyota.png", []byte("png"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		imagePaths = append(imagePaths, decodeResponse(t, w)["data"].(map[string]interface{})["imagePath"].(string))
	}
	w := performMultipart(router, http.MethodPost, "/cars", carFields(honda.ID), "honda.png", []byte("png"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/automakers/%d", toyota.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var cars []models.Car
	require.NoError(t, db.Find(&cars).Error)
	require.Len(t, cars, 1)
	assert.Equal(t, honda.ID, cars[0].AutomakerID)
	assert.ElementsMatch(t, imagePaths, images.DeletedKeys())
	assert.Len(t, images.GetUploadedImages(), 1)

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/automakers/%d", toyota.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "AUTOMAKER_NOT_FOUND", errorCode(t, w))
}
