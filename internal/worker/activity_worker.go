package worker

import (
	"github.com/AaronAmha/HomeManagement/internal/service"
)

// StartActivityWorker registers event-audit handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
