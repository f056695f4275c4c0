package models

// Service — услуга из каталога со своим упорядоченным списком слотов.
// Каталог загружается из configs/services.yaml и не меняется во время
// работы процесса.
type Service struct {
	Name  string   `yaml:"name"`
	Slots []string `yaml:"slots"`
}

// Catalog — упорядоченный каталог услуг с быстрым поиском по имени.
type Catalog struct {
	services []Service
	byName   map[string]int
}

func NewCatalog(services []Service) Catalog {
	byName := make(map[string]int, len(services))
	for i, svc := range services {
		byName[svc.Name] = i
	}
	return Catalog{services: services, byName: byName}
}

// Services возвращает услуги в порядке конфигурации.
func (c Catalog) Services() []Service {
	return c.services
}

func (c Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// SlotsFor возвращает слоты услуги в порядке конфигурации.
func (c Catalog) SlotsFor(name string) []string {
	idx, ok := c.byName[name]
	if !ok {
		return nil
	}
	return c.services[idx].Slots
}

// HasSlot проверяет, что слот вообще предлагается для услуги.
// Защита от устаревших callback-токенов.
func (c Catalog) HasSlot(service, slot string) bool {
	for _, s := range c.SlotsFor(service) {
		if s == slot {
			return true
		}
	}
	return false
}
