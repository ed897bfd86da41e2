package entity

// Ganchos para los adaptadores de persistencia. No forman parte de la superficie de negocio:
// reconstruyen el agregado desde almacenamiento y le devuelven las claves generadas.

// Restore rehidrata las colecciones hijas de una licencia leída desde almacenamiento.
func (l *License) Restore(conditions []LicenseCondition, attachments []LicenseAttachment, renewals []LicenseRenewal, audit []AuditEntry) {
	l.conditions = append([]LicenseCondition(nil), conditions...)
	l.attachments = append([]LicenseAttachment(nil), attachments...)
	l.renewals = append([]LicenseRenewal(nil), renewals...)
	l.auditTrail = append([]AuditEntry(nil), audit...)
	l.removedConditionIDs = nil
	l.removedAttachmentIDs = nil
}

// AssignID fija el ID generado para la licencia y lo propaga a los hijos no persistidos.
func (l *License) AssignID(id int64) {
	l.ID = id
	for i := range l.conditions {
		l.conditions[i].LicenseID = id
	}
	for i := range l.attachments {
		l.attachments[i].LicenseID = id
	}
	for i := range l.renewals {
		l.renewals[i].LicenseID = id
	}
	for i := range l.auditTrail {
		l.auditTrail[i].LicenseID = id
	}
}

// AssignConditionID reemplaza el ID provisional de la condición en la posición idx (orden de Conditions()).
func (l *License) AssignConditionID(idx int, id int64) {
	if idx >= 0 && idx < len(l.conditions) {
		l.conditions[idx].ID = id
	}
}

// AssignAttachmentID reemplaza el ID provisional del adjunto en la posición idx (orden de Attachments()).
func (l *License) AssignAttachmentID(idx int, id int64) {
	if idx >= 0 && idx < len(l.attachments) {
		l.attachments[idx].ID = id
	}
}

// AssignRenewalID fija el ID de la renovación en la posición idx (orden de Renewals()).
func (l *License) AssignRenewalID(idx int, id int64) {
	if idx >= 0 && idx < len(l.renewals) {
		l.renewals[idx].ID = id
	}
}

// AssignAuditID fija el ID de la entrada de bitácora en la posición idx (orden de AuditTrail()).
func (l *License) AssignAuditID(idx int, id int64) {
	if idx >= 0 && idx < len(l.auditTrail) {
		l.auditTrail[idx].ID = id
	}
}

// RemovedConditionIDs IDs persistidos de condiciones quitadas desde la última carga.
func (l *License) RemovedConditionIDs() []int64 {
	return append([]int64(nil), l.removedConditionIDs...)
}

// RemovedAttachmentIDs IDs persistidos de adjuntos quitados desde la última carga.
func (l *License) RemovedAttachmentIDs() []int64 {
	return append([]int64(nil), l.removedAttachmentIDs...)
}

// MarkPersisted limpia el registro de bajas tras un guardado exitoso.
func (l *License) MarkPersisted() {
	l.removedConditionIDs = nil
	l.removedAttachmentIDs = nil
}

// LastAuditEntry última entrada de la bitácora (la producida por la operación más reciente).
func (l *License) LastAuditEntry() (AuditEntry, bool) {
	if len(l.auditTrail) == 0 {
		return AuditEntry{}, false
	}
	return l.auditTrail[len(l.auditTrail)-1], true
}
