package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "account_registrations_total", Help: "Account registration attempts by role and result."},
		[]string{"role", "result"},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "logins_total", Help: "Login attempts by role and result."},
		[]string{"role", "result"},
	)
	DrivesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "drives_created_total", Help: "Donation drives created."},
	)
	DriveRegistrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "drive_registrations_total", Help: "Donor drive registration attempts by result."},
		[]string{"result"},
	)
	BloodRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "blood_requests_total", Help: "Hospital blood request operations by action."},
		[]string{"action"},
	)

	LocationLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "location_lookups_total", Help: "Pincode lookups by outcome (cache_hit, resolved, fallback)."},
		[]string{"outcome"},
	)

	DocumentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "document_saves_total", Help: "Data document writes by result."},
		[]string{"result"},
	)
	DocumentSaveSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "bloodsync", Name: "document_save_seconds", Help: "Time spent persisting the data document.", Buckets: prometheus.DefBuckets},
	)
	DocumentBackups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bloodsync", Name: "document_backups_total", Help: "Snapshot uploads to object storage by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Registrations)
	reg.MustRegister(Logins)
	reg.MustRegister(DrivesCreated)
	reg.MustRegister(DriveRegistrations)
	reg.MustRegister(BloodRequests)
	reg.MustRegister(LocationLookups)
	reg.MustRegister(DocumentSaves)
	reg.MustRegister(DocumentSaveSeconds)
	reg.MustRegister(DocumentBackups)
}
