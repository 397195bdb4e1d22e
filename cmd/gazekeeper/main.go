// Gazekeeper - webcam gaze-attention detector
//
// Watches the webcam, decides whether the user is looking at the screen,
// and after a sustained away interval sends a one-byte trigger to a
// microcontroller over serial.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/gazekeeper/gazekeeper/internal/config"
	"github.com/gazekeeper/gazekeeper/internal/log"
	"github.com/gazekeeper/gazekeeper/pkg/attention"
	"github.com/gazekeeper/gazekeeper/pkg/capture"
	"github.com/gazekeeper/gazekeeper/pkg/debug"
	"github.com/gazekeeper/gazekeeper/pkg/facemesh"
	"github.com/gazekeeper/gazekeeper/pkg/gaze"
	"github.com/gazekeeper/gazekeeper/pkg/signal"
	"github.com/gazekeeper/gazekeeper/pkg/web"
)

func main() {
	config.Load()

	meshDefaults := facemesh.DefaultConfig()

	// Command line flags
	cameraIndex := flag.Int("camera", config.CameraIndex(), "Capture device index")
	serialPort := flag.String("serial", config.SerialPort(), "Serial port for the trigger device (empty = disabled)")
	baudRate := flag.Int("baud", config.BaudRate(), "Serial baud rate")
	policy := flag.String("policy", "offset", "Gaze policy: offset or zone")
	awayThreshold := flag.Duration("away-threshold", attention.DefaultConfig().AwayThreshold, "Continuous away time before the trigger fires")
	faceModel := flag.String("face-model", meshDefaults.FaceModelPath, "YuNet face locator ONNX model")
	meshModel := flag.String("mesh-model", meshDefaults.MeshModelPath, "Attention-mesh landmark ONNX model")
	dashboardPort := flag.String("dashboard", config.DashboardPort(), "Dashboard port (empty = disabled)")
	noWindow := flag.Bool("no-window", false, "Run without the preview window")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	debugGaze := flag.Bool("debug-gaze", false, "Enable verbose per-frame gaze logging")
	flag.Parse()

	debug.Enabled = *debugFlag
	debug.Gaze = *debugGaze
	if *debugFlag {
		log.Init("debug")
	} else {
		log.Init(config.LogLevel())
	}

	gazeCfg := gazeConfig(*policy)
	meshCfg := meshConfig(*faceModel, *meshModel)
	monitorCfg := attention.Config{AwayThreshold: *awayThreshold}

	log.Info("gazekeeper starting",
		"camera", *cameraIndex,
		"policy", gazeCfg.Policy.String(),
		"away_threshold", monitorCfg.AwayThreshold,
		"serial", *serialPort)

	// Serial failure is non-fatal: Connect downgrades to a no-op sink.
	sink := signal.Connect(*serialPort, *baudRate)
	defer sink.Close()
	_, serialAttached := sink.(*signal.SerialSink)

	detector, err := facemesh.NewDetector(meshCfg)
	if err != nil {
		log.Error("could not load landmark models", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	// Camera failure is fatal to the session.
	cam, err := capture.Open(*cameraIndex)
	if err != nil {
		log.Error("camera unavailable", "error", err)
		os.Exit(1)
	}
	defer cam.Close()

	var dashboard *web.Server
	if *dashboardPort != "" {
		dashboard = web.NewServer(*dashboardPort)
		dashboard.UpdateState(func(s *web.State) {
			s.Policy = gazeCfg.Policy.String()
			s.SerialAttached = serialAttached
			s.CameraIndex = *cameraIndex
		})
		dashboard.StartAsync()
		defer dashboard.Shutdown()
	}

	// Handle signals for headless shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	ossignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println()
		log.Info("shutting down")
		cancel()
	}()

	var window *gocv.Window
	if !*noWindow {
		window = gocv.NewWindow("Gazekeeper")
		defer window.Close()
	}

	run(ctx, cam, detector, gaze.NewClassifier(gazeCfg),
		attention.New(monitorCfg, sink), dashboard, window)

	log.Info("session ended")
}

// run is the frame loop: each frame is fully processed before the next
// is captured. Back-pressure is implicit; frame rate equals throughput.
func run(ctx context.Context, cam *capture.Camera, provider facemesh.Provider,
	classifier *gaze.Classifier, monitor *attention.Monitor,
	dashboard *web.Server, window *gocv.Window) {

	img := gocv.NewMat()
	defer img.Close()

	lastStatus := attention.StatusLooking

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// A single failed read ends the session.
		if err := cam.Read(&img); err != nil {
			log.Error("frame read failed, stopping", "error", err)
			return
		}
		width, height := img.Cols(), img.Rows()

		mesh, err := provider.Detect(img)
		if err != nil {
			// Detection errors degrade to "no face" for this frame.
			log.Warn("landmark detection error", "error", err)
			mesh = nil
		}

		var update attention.Update
		if mesh.Valid() {
			reading := classifier.Classify(mesh, width, height)
			update = monitor.Observe(reading.Looking, true)

			capture.DrawReading(&img, reading)
			if classifier.Config().Policy == gaze.PolicyZone {
				capture.DrawZone(&img, classifier.AttentionZone(width, height), reading.Looking)
			}
		} else {
			update = monitor.Observe(false, false)
		}
		capture.DrawStatus(&img, update)

		if dashboard != nil {
			publish(dashboard, monitor, update, lastStatus, &img)
		}
		lastStatus = update.Status

		if window != nil {
			window.IMShow(img)
			if window.WaitKey(1) == 'q' {
				return
			}
		} else {
			// Headless: no WaitKey to pace the loop, yield briefly.
			time.Sleep(time.Millisecond)
		}
	}
}

// publish pushes the frame's outcome to the dashboard.
func publish(dashboard *web.Server, monitor *attention.Monitor,
	update attention.Update, lastStatus attention.Status, img *gocv.Mat) {

	dashboard.UpdateState(func(s *web.State) {
		s.Status = update.Status.String()
		s.Looking = update.Status == attention.StatusLooking
		s.AwaySeconds = update.Elapsed.Seconds()
		s.TriggerCount = monitor.TriggerCount()
	})

	if update.Status != lastStatus {
		dashboard.AddLog("info", "status: "+update.Status.String())
	}
	if update.Triggered {
		dashboard.AddLog("trigger", fmt.Sprintf("trigger #%d fired after %.1fs away",
			monitor.TriggerCount(), update.Elapsed.Seconds()))
	}

	if buf, err := gocv.IMEncode(".jpg", *img); err == nil {
		dashboard.SendPreviewFrame(buf.GetBytes())
		buf.Close()
	}
}

// gazeConfig builds the classifier configuration from the policy name
// and any environment overrides.
func gazeConfig(policy string) gaze.Config {
	cfg := gaze.DefaultConfig()
	if policy == "zone" {
		cfg = gaze.ZoneConfig()
	}
	cfg.HorizontalThreshold = int(config.EnvFloat("GAZE_H_THRESHOLD", float64(cfg.HorizontalThreshold)))
	cfg.VerticalThreshold = int(config.EnvFloat("GAZE_V_THRESHOLD", float64(cfg.VerticalThreshold)))
	cfg.ZoneMargin = config.EnvFloat("GAZE_ZONE_MARGIN", cfg.ZoneMargin)
	return cfg
}

// meshConfig builds the detector configuration with environment overrides.
func meshConfig(faceModel, meshModel string) facemesh.Config {
	cfg := facemesh.DefaultConfig()
	cfg.FaceModelPath = faceModel
	cfg.MeshModelPath = meshModel
	cfg.ConfidenceThresh = config.EnvFloat("DETECT_CONFIDENCE", cfg.ConfidenceThresh)
	return cfg
}
