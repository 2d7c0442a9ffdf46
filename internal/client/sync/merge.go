package sync

import "github.com/iudanet/octosync/internal/models"

// Merge объединяет удаленный и локальный снимки одной коллекции.
//
// Результат: все удаленные сущности в удаленном порядке, затем локальные
// сущности, чьих id нет на удаленной стороне, в локальном порядке.
// При совпадении id побеждает удаленная версия. Сущности без id и повторы
// отбрасываются. Входные снимки не изменяются.
func Merge(remote, local models.Snapshot) models.Snapshot {
	remote, _ = remote.Normalize()
	local, _ = local.Normalize()

	remoteIDs := remote.IDs()

	merged := make(models.Snapshot, 0, len(remote)+len(local))
	for _, e := range remote {
		merged = append(merged, e.Clone())
	}
	for _, e := range local {
		if _, ok := remoteIDs[e.ID()]; ok {
			continue
		}
		merged = append(merged, e.Clone())
	}

	return merged
}
