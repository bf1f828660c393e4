package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	availableSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/available_slots"
	cancelAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_appointment"
	createAvailabilityRuleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_availability_rule"
	createTimeOffHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_time_off"
	deleteAvailabilityRuleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_availability_rule"
	deleteTimeOffHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_time_off"
	findConflictsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/find_conflicts"
	getAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_appointment"
	getAvailabilityRulesHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_availability_rules"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_customer_appointments"
	getScheduleConfigHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_schedule_config"
	getStaffAppointmentsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_staff_appointments"
	getTimeOffHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_time_off"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_appointment_status"
	updateScheduleConfigHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_schedule_config"
	updateTimeOffStatusHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_time_off_status"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availability"
	scheduleConfigRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
	timeOffRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeoff"
	companyServiceClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	userServiceClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-ScheduleService/internal/service/availability"
	scheduleConfigService "github.com/m04kA/SMC-ScheduleService/internal/service/scheduleconfig"
	timeOffService "github.com/m04kA/SMC-ScheduleService/internal/service/timeoff"
	createAppointmentUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_appointment"
	findConflictsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
	getAvailableSlotsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ScheduleService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	companyClient := companyServiceClient.NewClient(
		cfg.CompanyService.URL,
		time.Duration(cfg.CompanyService.Timeout)*time.Second,
		log,
	)
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CompanyService=%s timeout=%ds, UserService=%s timeout=%ds)",
		cfg.CompanyService.URL, cfg.CompanyService.Timeout, cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository    *appointmentRepo.Repository
		availabilityRepository   *availabilityRepo.Repository
		timeOffRepository        *timeOffRepo.Repository
		scheduleConfigRepository *scheduleConfigRepo.Repository
		txMgr                    createAppointmentUC.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		timeOffRepository = timeOffRepo.NewRepository(wrappedDB)
		scheduleConfigRepository = scheduleConfigRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		timeOffRepository = timeOffRepo.NewRepository(db)
		scheduleConfigRepository = scheduleConfigRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		timeOffRepository,
		scheduleConfigRepository,
		companyClient,
		nil,
		log,
	)

	findConflictsUseCase := findConflictsUC.NewUseCase(
		appointmentRepository,
		timeOffRepository,
		scheduleConfigRepository,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		timeOffRepository,
		scheduleConfigRepository,
		txMgr,
		companyClient,
		userClient,
		nil,
		log,
	)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		createAppointmentUseCase,
		getAvailableSlotsUseCase,
		findConflictsUseCase,
		companyClient,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		companyClient,
		log,
	)
	timeOffSvc := timeOffService.NewService(
		timeOffRepository,
		findConflictsUseCase,
		companyClient,
		log,
	)
	scheduleConfigSvc := scheduleConfigService.NewService(
		scheduleConfigRepository,
		companyClient,
		log,
	)

	// Инициализируем handlers
	availableSlots := availableSlotsHandler.NewHandler(appointmentsSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getStaffAppointments := getStaffAppointmentsHandler.NewHandler(appointmentsSvc, log)
	findConflicts := findConflictsHandler.NewHandler(appointmentsSvc, log)
	createAvailabilityRule := createAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	getAvailabilityRules := getAvailabilityRulesHandler.NewHandler(availabilitySvc, log)
	deleteAvailabilityRule := deleteAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	createTimeOff := createTimeOffHandler.NewHandler(timeOffSvc, log)
	getTimeOff := getTimeOffHandler.NewHandler(timeOffSvc, log)
	updateTimeOffStatus := updateTimeOffStatusHandler.NewHandler(timeOffSvc, log)
	deleteTimeOff := deleteTimeOffHandler.NewHandler(timeOffSvc, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(scheduleConfigSvc, log)
	updateScheduleConfig := updateScheduleConfigHandler.NewHandler(scheduleConfigSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты мастера на дату
	api.HandleFunc("/companies/{companyId}/staff/{staffId}/available-slots",
		availableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация расписания компании
	api.HandleFunc("/companies/{companyId}/config",
		getScheduleConfig.Handle).Methods(http.MethodGet)

	// Правила еженедельной доступности мастера
	api.HandleFunc("/staff/{staffId}/availability-rules",
		getAvailabilityRules.Handle).Methods(http.MethodGet)

	// Time-off мастера
	api.HandleFunc("/staff/{staffId}/time-off",
		getTimeOff.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи (или серии записей)
	protected.HandleFunc("/companies/{companyId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}",
		getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (для менеджеров)
	protected.HandleFunc("/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments",
		getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление компанией (для менеджеров) ---
	// Записи мастера за период
	protected.HandleFunc("/companies/{companyId}/staff/{staffId}/appointments",
		getStaffAppointments.Handle).Methods(http.MethodGet)

	// Проверка коллизий интервала
	protected.HandleFunc("/companies/{companyId}/staff/{staffId}/conflicts",
		findConflicts.Handle).Methods(http.MethodGet)

	// Правила доступности
	protected.HandleFunc("/companies/{companyId}/availability-rules",
		createAvailabilityRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/availability-rules/{ruleId}",
		deleteAvailabilityRule.Handle).Methods(http.MethodDelete)

	// Time-off
	protected.HandleFunc("/companies/{companyId}/time-off",
		createTimeOff.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/time-off/{timeOffId}/status",
		updateTimeOffStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/time-off/{timeOffId}",
		deleteTimeOff.Handle).Methods(http.MethodDelete)

	// Конфигурация расписания
	protected.HandleFunc("/companies/{companyId}/config",
		updateScheduleConfig.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
