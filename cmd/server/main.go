package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"rentaride/internal/api"
	"rentaride/internal/auth"
	"rentaride/internal/repository"
	"rentaride/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	jobRepo := repository.NewJobRepository(db)

	sender := service.NewSenderService()
	stripeSvc := service.NewStripeService()
	bookingSvc := service.NewBookingService(bookingRepo, carRepo, userRepo, sender, stripeSvc)
	carSvc := service.NewCarService(carRepo, userRepo, bookingRepo)
	jobSvc := service.NewJobService(jobRepo)

	bookingHandler := api.NewBookingHandler(bookingSvc)
	carHandler := api.NewCarHandler(carSvc)
	ownerHandler := api.NewOwnerHandler(carSvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc, stripeSvc)

	gate := auth.NewMiddleware(userRepo)

	r := mux.NewRouter()

	// Public endpoints
	public := r.PathPrefix("/api").Subrouter()
	public.Use(api.RateLimit(60, 10))
	public.HandleFunc("/bookings/check-availability", bookingHandler.CheckAvailability).Methods("POST")
	public.HandleFunc("/cars", carHandler.ListCars).Methods("GET")
	public.HandleFunc("/cars/{id}", carHandler.GetCar).Methods("GET")

	// Stripe webhook verifies its own signature, keep it off the rate limiter
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Booking endpoints (protected)
	bookings := r.PathPrefix("/api/bookings").Subrouter()
	bookings.Use(gate.Authenticate)
	bookings.HandleFunc("/create", bookingHandler.CreateBooking).Methods("POST")
	bookings.HandleFunc("/user", bookingHandler.GetUserBookings).Methods("GET")
	bookings.HandleFunc("/owner", bookingHandler.GetOwnerBookings).Methods("GET")
	bookings.HandleFunc("/change-status", bookingHandler.ChangeBookingStatus).Methods("POST")
	bookings.HandleFunc("/{id:[0-9]+}", bookingHandler.GetBooking).Methods("GET")
	bookings.HandleFunc("/{id:[0-9]+}", bookingHandler.UpdateBooking).Methods("PUT")

	// Owner endpoints (protected)
	owner := r.PathPrefix("/api/owner").Subrouter()
	owner.Use(gate.Authenticate)
	owner.HandleFunc("/change-role", ownerHandler.ChangeRole).Methods("POST")
	owner.HandleFunc("/add-car", ownerHandler.AddCar).Methods("POST")
	owner.HandleFunc("/cars", ownerHandler.GetOwnerCars).Methods("GET")
	owner.HandleFunc("/toggle-car", ownerHandler.ToggleCar).Methods("POST")
	owner.HandleFunc("/delete-car", ownerHandler.DeleteCar).Methods("POST")
	owner.HandleFunc("/car/{id:[0-9]+}", ownerHandler.GetCarByID).Methods("GET")
	owner.HandleFunc("/edit-car/{id:[0-9]+}", ownerHandler.EditCar).Methods("PUT")
	owner.HandleFunc("/dashboard", ownerHandler.Dashboard).Methods("GET")

	c := cron.New()
	c.AddFunc("0 3 * * *", func() {
		if err := jobSvc.CompleteFinishedBookings(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
		if err := jobSvc.CancelOrphanedBookings(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
