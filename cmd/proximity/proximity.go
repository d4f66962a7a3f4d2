package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/proximity.report/internal/api"
	"github.com/banshee-data/proximity.report/internal/config"
	"github.com/banshee-data/proximity.report/internal/proxdb"
	"github.com/banshee-data/proximity.report/internal/proximity"
	"github.com/banshee-data/proximity.report/internal/rangefinder"
	"github.com/banshee-data/proximity.report/internal/serialmux"
)

var (
	listen     = flag.String("listen", ":8082", "HTTP listen address")
	port       = flag.String("port", "/dev/ttyUSB0", "Serial port of the scanning rangefinder")
	configPath = flag.String("config", "", "Path to sensor config JSON (optional)")
	dbFile     = flag.String("db", "proximity_data.db", "Path to the SQLite event database; empty disables persistence")
	devMode    = flag.Bool("dev", false, "Replay fixtures.txt instead of opening a serial port")
	noSensor   = flag.Bool("no-sensor", false, "Run the HTTP server without any sensor attached")
)

func buildMux(cfg *config.SensorConfig) (serialmux.SerialMuxInterface, error) {
	if *noSensor {
		return serialmux.NewDisabledSerialMux(), nil
	}
	if *devMode {
		data, err := os.ReadFile("fixtures.txt")
		if err != nil {
			return nil, fmt.Errorf("failed to open fixtures file: %w", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		mux, _ := serialmux.MockSerialMux(lines, 20*time.Millisecond)
		return mux, nil
	}
	return serialmux.NewRealSerialMux(*port, cfg.GetSerial())
}

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.EmptySensorConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSensorConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	model := proximity.NewModel(cfg.Layout(), cfg.GetMaxRangeMeters())
	if err := model.SetIgnoreZones(cfg.Zones()); err != nil {
		log.Fatalf("failed to configure ignore zones: %v", err)
	}
	shared := proximity.NewSynced(model)

	sensorSerial, err := buildMux(cfg)
	if err != nil {
		log.Fatalf("failed to open sensor port: %v", err)
	}
	defer sensorSerial.Close()

	driver := rangefinder.New(sensorSerial, shared, cfg.GetDataTimeout())
	if !*noSensor {
		if err := driver.Initialize(); err != nil {
			log.Fatalf("failed to initialize device: %v", err)
		}
		log.Printf("initialized rangefinder on %s", *port)
	}

	var db *proxdb.DB
	if *dbFile != "" {
		db, err = proxdb.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// serial IO
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sensorSerial.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// measurement processing
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := driver.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("driver terminated: %v", err)
		}
		log.Print("driver routine terminated")
	}()

	// periodic event persistence
	if db != nil && cfg.GetEventInterval() > 0 {
		recorder := proxdb.NewRecorder(db, shared, cfg.GetEventInterval())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recorder.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("recorder terminated: %v", err)
			}
			log.Print("recorder routine terminated")
		}()
	}

	// HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(shared, driver.Stats(), db).ServeMux()
		server := &http.Server{
			Addr:    *listen,
			Handler: mux,
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
		log.Print("http server terminated")
	}()

	wg.Wait()
}
