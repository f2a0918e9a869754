package handlers

import (
	intconfig "ferryapp/internal/config"
	"ferryapp/internal/gateway"
	"ferryapp/internal/http/middleware"
	"ferryapp/internal/notification"
	"ferryapp/internal/repositories"
	"ferryapp/internal/services"

	"github.com/gin-gonic/gin"
)

// Services are assembled per request from the shared DB handle, the way
// the rest of the handlers package does it.

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Schedules:  repositories.ScheduleRepository{},
		Bookings:   repositories.BookingRepository{},
		Passengers: repositories.PassengerRepository{},
		Pricelists: repositories.PricelistRepository{},
		Promos:     repositories.PromoRepository{},
		HoldWindow: intconfig.Cfg.BookingHold,
		RequestID:  middleware.GetRequestID(c),
	}
}

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Payments:   repositories.PaymentRepository{},
		Bookings:   repositories.BookingRepository{},
		Schedules:  repositories.ScheduleRepository{},
		Passengers: repositories.PassengerRepository{},
		Gateway:    gateway.NewClient(intconfig.Cfg.XenditBaseURL, intconfig.Cfg.XenditAPIKey),
		Notifier:   notification.Default,
		RequestID:  middleware.GetRequestID(c),
	}
}

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Passengers: repositories.PassengerRepository{},
		Bookings:   repositories.BookingRepository{},
		Schedules:  repositories.ScheduleRepository{},
		RequestID:  middleware.GetRequestID(c),
	}
}
