// Package monitoring turns a running coreidle system into a server that
// external tooling can observe: which driver governs which core, what every
// core is doing, and how the process is holding up.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/machine"
	"github.com/sarchlab/coreidle/monitoring/web"
)

// Monitor can turn a coreidle system into a server and allows external
// observation and control of idle management.
type Monitor struct {
	registry   *idle.Registry
	machine    *machine.Machine
	portNumber int
	actualPort int
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterRegistry registers the driver registry to be observed.
func (m *Monitor) RegisterRegistry(r *idle.Registry) {
	m.registry = r
}

// RegisterMachine registers the machine whose cores are observed.
func (m *Monitor) RegisterMachine(mc *machine.Machine) {
	m.machine = mc
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/enable", m.enableIdle)
	r.HandleFunc("/api/disable", m.disableIdle)
	r.HandleFunc("/api/cores", m.listCores)
	r.HandleFunc("/api/core/{id}", m.coreDetails)
	r.HandleFunc("/api/drivers", m.listDrivers)
	r.HandleFunc("/api/driver/{name}", m.driverDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.actualPort = listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(
		os.Stderr,
		"Monitoring idle management with http://localhost:%d\n",
		m.actualPort)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

// OpenDashboard opens the monitoring page in the default browser. The server
// must have been started first.
func (m *Monitor) OpenDashboard() {
	if m.actualPort == 0 {
		log.Panic("monitoring server is not started")
	}

	err := browser.OpenURL(
		fmt.Sprintf("http://localhost:%d", m.actualPort))
	dieOnErr(err)
}

func (m *Monitor) enableIdle(w http.ResponseWriter, _ *http.Request) {
	m.registry.Enable()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) disableIdle(w http.ResponseWriter, _ *http.Request) {
	m.registry.Disable()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type coreRsp struct {
	Core        int    `json:"core"`
	Driver      string `json:"driver"`
	Polling     bool   `json:"polling"`
	NeedResched bool   `json:"need_resched"`
}

func (m *Monitor) coreStatus(c machine.CoreID) coreRsp {
	rsp := coreRsp{Core: int(c)}

	if d := m.registry.Driver(c); d != nil {
		rsp.Driver = d.Name
	}

	if m.machine != nil {
		if p := m.machine.Proc(c); p != nil {
			rsp.Polling = p.IsPolling()
			rsp.NeedResched = p.NeedResched()
		}
	}

	return rsp
}

func (m *Monitor) listCores(w http.ResponseWriter, _ *http.Request) {
	cores := make([]coreRsp, 0, m.registry.CoreCount())
	for c := 0; c < m.registry.CoreCount(); c++ {
		cores = append(cores, m.coreStatus(machine.CoreID(c)))
	}

	bytes, err := json.Marshal(cores)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) coreDetails(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]

	id, err := strconv.Atoi(idStr)
	if err != nil || id < 0 || id >= m.registry.CoreCount() {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Core not found"))
		dieOnErr(err)

		return
	}

	bytes, err := json.Marshal(m.coreStatus(machine.CoreID(id)))
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listDrivers(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, d := range m.registry.Drivers() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", d.Name)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) driverDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	driver := m.findDriverOr404(w, name)
	if driver == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(driver)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findDriverOr404(
	w http.ResponseWriter,
	name string,
) *idle.Driver {
	var driver *idle.Driver
	for _, d := range m.registry.Drivers() {
		if d.Name == name {
			driver = d
		}
	}

	if driver == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Driver not found"))
		dieOnErr(err)
	}

	return driver
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
