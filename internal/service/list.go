package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"harbor-control/internal/dto"
	"harbor-control/internal/pagination"
	"harbor-control/internal/repository"
)

// parsePageNumber blank means 1; anything else must be a positive integer.
func parsePageNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", pagination.ErrInvalidPage, raw)
	}
	return n, nil
}

// windowFor resolves a fixed-size page, rejecting pages past the end.
func windowFor(raw string, total int64, per int) (page, numPages int, err error) {
	page, err = parsePageNumber(raw)
	if err != nil {
		return 0, 0, err
	}
	numPages = dto.NumPagesFor(total, per)
	if page > numPages {
		return 0, 0, fmt.Errorf("%w: page %d of %d", pagination.ErrInvalidPage, page, numPages)
	}
	return page, numPages, nil
}

func boatListQuery(p *dto.ListParams) (repository.ListQuery, string) {
	key, col := repository.BoatSort(p.Sort)
	return repository.ListQuery{
		Search:        p.Search(),
		SearchColumns: repository.BoatSearchColumns,
		SortColumn:    col,
		Desc:          p.Desc(),
	}, key
}

func trafficListQuery(p *dto.ListParams) (repository.ListQuery, string) {
	key, col := repository.TrafficSort(p.Sort)
	return repository.ListQuery{
		Search:        p.Search(),
		SearchColumns: repository.TrafficSearchColumns,
		SortColumn:    col,
		Desc:          p.Desc(),
	}, key
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
