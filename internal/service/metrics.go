package service

import (
	"strconv"
	"time"

	"messana_bridge/internal/messana"
	"messana_bridge/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "messana"

// MetricsCollector exports cycle counters and the retained snapshot of every
// device. Collect only reads coordinator state and never performs I/O.
type MetricsCollector struct {
	devices Registry

	cycles   *prometheus.CounterVec
	duration *prometheus.HistogramVec

	scrapeSuccess     *prometheus.Desc
	lastSuccess       *prometheus.Desc
	systemPower       *prometheus.Desc
	zoneTemperature   *prometheus.Desc
	zoneHumidity      *prometheus.Desc
	zoneDewpoint      *prometheus.Desc
	zoneSetpoint      *prometheus.Desc
	zonePower         *prometheus.Desc
	zoneThermalStatus *prometheus.Desc
	hcMode            *prometheus.Desc
}

var _ prometheus.Collector = (*MetricsCollector)(nil)
var _ CycleObserver = (*MetricsCollector)(nil)

func NewMetricsCollector(devices Registry) *MetricsCollector {
	deviceLabel := []string{"device"}
	zoneLabels := []string{"device", "zone", "name"}
	return &MetricsCollector{
		devices: devices,
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by outcome",
		}, []string{"device", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of one refresh cycle",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, deviceLabel),
		scrapeSuccess:     desc("scrape_success", "Last refresh cycle succeeded (1=ok, 0=error)", deviceLabel),
		lastSuccess:       desc("last_success_timestamp_seconds", "Last successful refresh (epoch seconds)", deviceLabel),
		systemPower:       desc("system_power", "Controller power (1=on)", deviceLabel),
		zoneTemperature:   desc("zone_temperature", "Zone air temperature in the controller unit", zoneLabels),
		zoneHumidity:      desc("zone_humidity_percent", "Zone relative humidity (%)", zoneLabels),
		zoneDewpoint:      desc("zone_dewpoint", "Zone dew point in the controller unit", zoneLabels),
		zoneSetpoint:      desc("zone_setpoint", "Zone target temperature in the controller unit", zoneLabels),
		zonePower:         desc("zone_power", "Zone on/off (1=on)", zoneLabels),
		zoneThermalStatus: desc("zone_thermal_status", "Zone thermal status (0 idle, 1 heat, 2 cool, 3 both)", zoneLabels),
		hcMode:            desc("hc_mode", "H/C group mode (0 heat, 1 cool, 2 auto)", []string{"device", "group"}),
	}
}

func desc(name, help string, labels []string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", name), help, labels, nil)
}

// ObserveCycle implements CycleObserver.
func (m *MetricsCollector) ObserveCycle(device string, took time.Duration, err error) {
	m.cycles.WithLabelValues(device, cycleResult(err)).Inc()
	m.duration.WithLabelValues(device).Observe(took.Seconds())
}

func cycleResult(err error) string {
	if err == nil {
		return "success"
	}
	kind, ok := messana.KindOf(err)
	if !ok {
		return "error"
	}
	return kind.String() + "_error"
}

func (m *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	m.cycles.Describe(ch)
	m.duration.Describe(ch)
	for _, d := range []*prometheus.Desc{
		m.scrapeSuccess, m.lastSuccess, m.systemPower,
		m.zoneTemperature, m.zoneHumidity, m.zoneDewpoint, m.zoneSetpoint,
		m.zonePower, m.zoneThermalStatus, m.hcMode,
	} {
		ch <- d
	}
}

func (m *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	m.cycles.Collect(ch)
	m.duration.Collect(ch)

	for _, name := range m.devices.Names() {
		d, err := m.devices.Device(name)
		if err != nil {
			continue
		}
		st := d.Coordinator.Status()
		ok := 0.0
		if st.Cycles > 0 && !st.Stale {
			ok = 1
		}
		ch <- prometheus.MustNewConstMetric(m.scrapeSuccess, prometheus.GaugeValue, ok, name)
		if !st.LastSuccess.IsZero() {
			ch <- prometheus.MustNewConstMetric(m.lastSuccess, prometheus.GaugeValue, float64(st.LastSuccess.Unix()), name)
		}

		snap := d.Coordinator.Snapshot()
		if snap == nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(m.systemPower, prometheus.GaugeValue, boolGauge(snap.System.PowerOn), name)
		for _, g := range snap.HCGroups {
			ch <- prometheus.MustNewConstMetric(m.hcMode, prometheus.GaugeValue, float64(g.Mode), name, strconv.Itoa(g.ID))
		}
		for _, z := range snap.Zones {
			m.collectZone(ch, name, z)
		}
	}
}

func (m *MetricsCollector) collectZone(ch chan<- prometheus.Metric, device string, z models.Zone) {
	labels := []string{device, strconv.Itoa(z.ID), z.Name}
	setGauge(ch, m.zoneTemperature, z.Temperature, labels)
	setGauge(ch, m.zoneHumidity, z.Humidity, labels)
	setGauge(ch, m.zoneDewpoint, z.Dewpoint, labels)
	setGauge(ch, m.zoneSetpoint, z.Setpoint, labels)
	ch <- prometheus.MustNewConstMetric(m.zonePower, prometheus.GaugeValue, boolGauge(z.PowerOn), labels...)
	ch <- prometheus.MustNewConstMetric(m.zoneThermalStatus, prometheus.GaugeValue, float64(z.ThermalStatus), labels...)
}

// setGauge emits nothing for an absent reading.
func setGauge(ch chan<- prometheus.Metric, d *prometheus.Desc, v *float64, labels []string) {
	if v == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, *v, labels...)
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
