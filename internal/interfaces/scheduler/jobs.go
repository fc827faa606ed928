package scheduler

import (
	"context"
	"log"

	"ledgerdesk/internal/domain/attestation"
)

// AttestationExpiryJob flips issued attestations past their expiry date to
// expired status.
type AttestationExpiryJob struct {
	attestations *attestation.Service
}

// NewAttestationExpiryJob creates a new attestation expiry job.
func NewAttestationExpiryJob(attestations *attestation.Service) *AttestationExpiryJob {
	return &AttestationExpiryJob{attestations: attestations}
}

func (j *AttestationExpiryJob) Name() string {
	return "attestation-expiry"
}

func (j *AttestationExpiryJob) Description() string {
	return "attestation expiry sweep"
}

func (j *AttestationExpiryJob) Execute(ctx context.Context) error {
	n, err := j.attestations.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Attestation expiry: %d attestation(s) expired", n)
	}
	return nil
}
