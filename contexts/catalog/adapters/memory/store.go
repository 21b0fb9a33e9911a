package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"
	"carte/contexts/catalog/domain/events"
	"carte/contexts/catalog/ports"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is an in-memory stand-in for the postgres adapter with the same
// transactional contract: a mutation and its outbox row appear together or
// not at all, and cascades happen within the same critical section.
type Store struct {
	mu sync.Mutex

	menus    map[string]entities.Menu
	submenus map[string]entities.Submenu
	dishes   map[string]entities.Dish
	outbox   []outboxRecord

	sequence     int
	base         time.Time
	failNext     error
	failNextMark error
}

func NewStore() *Store {
	return &Store{
		menus:    make(map[string]entities.Menu),
		submenus: make(map[string]entities.Submenu),
		dishes:   make(map[string]entities.Dish),
		base:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// FailNextWrite makes the next mutation fail before anything is applied,
// simulating a transaction that rolls back mid-operation.
func (s *Store) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// FailNextMark makes the next MarkOutboxPublished fail after a successful
// publish, simulating a relay crash between publish and mark.
func (s *Store) FailNextMark(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextMark = err
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return fmt.Sprintf("id-%04d", s.sequence), nil
}

// tick hands out strictly increasing timestamps so outbox creation order is
// deterministic.
func (s *Store) tick() time.Time {
	s.sequence++
	return s.base.Add(time.Duration(s.sequence) * time.Millisecond)
}

func (s *Store) consumeFailure() error {
	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	return nil
}

func (s *Store) appendOutbox(topic, key string, payload any) string {
	value, _ := json.Marshal(payload)
	id := fmt.Sprintf("outbox-%04d", len(s.outbox)+1)
	s.outbox = append(s.outbox, outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  id,
			Topic:     topic,
			Key:       key,
			Payload:   value,
			CreatedAt: s.tick(),
		},
	})
	return id
}

func (s *Store) GetMenu(_ context.Context, menuID string) (entities.MenuView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	menu, ok := s.menus[strings.TrimSpace(menuID)]
	if !ok {
		return entities.MenuView{}, domainerrors.ErrMenuNotFound
	}
	return s.menuView(menu), nil
}

func (s *Store) ListMenus(_ context.Context, skip, limit int) ([]entities.MenuView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.menus))
	for id := range s.menus {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]entities.MenuView, 0, len(ids))
	for _, id := range page(ids, skip, limit) {
		items = append(items, s.menuView(s.menus[id]))
	}
	return items, nil
}

func (s *Store) GetSubmenu(_ context.Context, submenuID string) (entities.SubmenuView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	submenu, ok := s.submenus[strings.TrimSpace(submenuID)]
	if !ok {
		return entities.SubmenuView{}, domainerrors.ErrSubmenuNotFound
	}
	return s.submenuView(submenu), nil
}

func (s *Store) ListSubmenus(_ context.Context, menuID string, skip, limit int) ([]entities.SubmenuView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, submenu := range s.submenus {
		if submenu.MenuID == menuID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	items := make([]entities.SubmenuView, 0, len(ids))
	for _, id := range page(ids, skip, limit) {
		items = append(items, s.submenuView(s.submenus[id]))
	}
	return items, nil
}

func (s *Store) GetDish(_ context.Context, dishID string) (entities.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dish, ok := s.dishes[strings.TrimSpace(dishID)]
	if !ok {
		return entities.Dish{}, domainerrors.ErrDishNotFound
	}
	return dish, nil
}

func (s *Store) ListDishes(_ context.Context, submenuID string, skip, limit int) ([]entities.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, dish := range s.dishes {
		if dish.SubmenuID == submenuID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	items := make([]entities.Dish, 0, len(ids))
	for _, id := range page(ids, skip, limit) {
		items = append(items, s.dishes[id])
	}
	return items, nil
}

func (s *Store) CreateMenu(_ context.Context, menu entities.Menu) (entities.Menu, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Menu{}, "", err
	}
	if _, exists := s.menus[menu.MenuID]; exists {
		return entities.Menu{}, "", domainerrors.ErrInvalidMenuInput
	}

	s.menus[menu.MenuID] = menu
	outboxID := s.appendOutbox(events.TopicMenus, menu.MenuID, events.MenuEvent{
		Action:      events.ActionCreate,
		MenuID:      menu.MenuID,
		Title:       menu.Title,
		Description: menu.Description,
	})
	return menu, outboxID, nil
}

func (s *Store) UpdateMenu(_ context.Context, menuID string, patch entities.MenuPatch) (entities.Menu, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Menu{}, "", err
	}
	menu, ok := s.menus[strings.TrimSpace(menuID)]
	if !ok {
		return entities.Menu{}, "", domainerrors.ErrMenuNotFound
	}

	if patch.Title != nil {
		menu.Title = *patch.Title
	}
	if patch.Description != nil {
		menu.Description = *patch.Description
	}
	menu.UpdatedAt = s.tick()
	s.menus[menu.MenuID] = menu

	outboxID := s.appendOutbox(events.TopicMenus, menu.MenuID, events.MenuEvent{
		Action:      events.ActionUpdate,
		MenuID:      menu.MenuID,
		Title:       menu.Title,
		Description: menu.Description,
	})
	return menu, outboxID, nil
}

func (s *Store) DeleteMenu(_ context.Context, menuID string) (entities.Menu, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Menu{}, "", err
	}
	menu, ok := s.menus[strings.TrimSpace(menuID)]
	if !ok {
		return entities.Menu{}, "", domainerrors.ErrMenuNotFound
	}

	for submenuID, submenu := range s.submenus {
		if submenu.MenuID != menu.MenuID {
			continue
		}
		for dishID, dish := range s.dishes {
			if dish.SubmenuID == submenuID {
				delete(s.dishes, dishID)
			}
		}
		delete(s.submenus, submenuID)
	}
	delete(s.menus, menu.MenuID)

	outboxID := s.appendOutbox(events.TopicMenus, menu.MenuID, events.MenuEvent{
		Action:      events.ActionDelete,
		MenuID:      menu.MenuID,
		Title:       menu.Title,
		Description: menu.Description,
	})
	return menu, outboxID, nil
}

func (s *Store) CreateSubmenu(_ context.Context, submenu entities.Submenu) (entities.Submenu, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Submenu{}, "", err
	}
	if _, exists := s.menus[submenu.MenuID]; !exists {
		return entities.Submenu{}, "", domainerrors.ErrMenuNotFound
	}
	if _, exists := s.submenus[submenu.SubmenuID]; exists {
		return entities.Submenu{}, "", domainerrors.ErrInvalidSubmenuInput
	}

	s.submenus[submenu.SubmenuID] = submenu
	outboxID := s.appendOutbox(events.TopicSubmenus, submenu.SubmenuID, events.SubmenuEvent{
		Action:      events.ActionCreate,
		SubmenuID:   submenu.SubmenuID,
		Title:       submenu.Title,
		Description: submenu.Description,
	})
	return submenu, outboxID, nil
}

func (s *Store) UpdateSubmenu(_ context.Context, submenuID string, patch entities.SubmenuPatch) (entities.Submenu, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Submenu{}, "", err
	}
	submenu, ok := s.submenus[strings.TrimSpace(submenuID)]
	if !ok {
		return entities.Submenu{}, "", domainerrors.ErrSubmenuNotFound
	}

	if patch.Title != nil {
		submenu.Title = *patch.Title
	}
	if patch.Description != nil {
		submenu.Description = *patch.Description
	}
	submenu.UpdatedAt = s.tick()
	s.submenus[submenu.SubmenuID] = submenu

	outboxID := s.appendOutbox(events.TopicSubmenus, submenu.SubmenuID, events.SubmenuEvent{
		Action:      events.ActionUpdate,
		SubmenuID:   submenu.SubmenuID,
		Title:       submenu.Title,
		Description: submenu.Description,
	})
	return submenu, outboxID, nil
}

func (s *Store) DeleteSubmenu(_ context.Context, submenuID string) (entities.Submenu, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Submenu{}, "", err
	}
	submenu, ok := s.submenus[strings.TrimSpace(submenuID)]
	if !ok {
		return entities.Submenu{}, "", domainerrors.ErrSubmenuNotFound
	}

	for dishID, dish := range s.dishes {
		if dish.SubmenuID == submenu.SubmenuID {
			delete(s.dishes, dishID)
		}
	}
	delete(s.submenus, submenu.SubmenuID)

	outboxID := s.appendOutbox(events.TopicSubmenus, submenu.SubmenuID, events.SubmenuEvent{
		Action:      events.ActionDelete,
		SubmenuID:   submenu.SubmenuID,
		Title:       submenu.Title,
		Description: submenu.Description,
	})
	return submenu, outboxID, nil
}

func (s *Store) CreateDish(_ context.Context, dish entities.Dish) (entities.Dish, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Dish{}, "", err
	}
	if _, exists := s.submenus[dish.SubmenuID]; !exists {
		return entities.Dish{}, "", domainerrors.ErrSubmenuNotFound
	}
	if _, exists := s.dishes[dish.DishID]; exists {
		return entities.Dish{}, "", domainerrors.ErrInvalidDishInput
	}

	s.dishes[dish.DishID] = dish
	outboxID := s.appendOutbox(events.TopicDishes, dish.DishID, events.DishEvent{
		Action:      events.ActionCreate,
		DishID:      dish.DishID,
		Title:       dish.Title,
		Description: dish.Description,
		Price:       dish.Price.String(),
	})
	return dish, outboxID, nil
}

func (s *Store) UpdateDish(_ context.Context, dishID string, patch entities.DishPatch) (entities.Dish, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Dish{}, "", err
	}
	dish, ok := s.dishes[strings.TrimSpace(dishID)]
	if !ok {
		return entities.Dish{}, "", domainerrors.ErrDishNotFound
	}

	if patch.Title != nil {
		dish.Title = *patch.Title
	}
	if patch.Description != nil {
		dish.Description = *patch.Description
	}
	if patch.Price != nil {
		dish.Price = *patch.Price
	}
	dish.UpdatedAt = s.tick()
	s.dishes[dish.DishID] = dish

	outboxID := s.appendOutbox(events.TopicDishes, dish.DishID, events.DishEvent{
		Action:      events.ActionUpdate,
		DishID:      dish.DishID,
		Title:       dish.Title,
		Description: dish.Description,
		Price:       dish.Price.String(),
	})
	return dish, outboxID, nil
}

func (s *Store) DeleteDish(_ context.Context, dishID string) (entities.Dish, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return entities.Dish{}, "", err
	}
	dish, ok := s.dishes[strings.TrimSpace(dishID)]
	if !ok {
		return entities.Dish{}, "", domainerrors.ErrDishNotFound
	}

	delete(s.dishes, dish.DishID)
	outboxID := s.appendOutbox(events.TopicDishes, dish.DishID, events.DishEvent{
		Action:      events.ActionDelete,
		DishID:      dish.DishID,
		Title:       dish.Title,
		Description: dish.Description,
		Price:       dish.Price.String(),
	})
	return dish, outboxID, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		message := record.message
		message.Payload = append([]byte(nil), record.message.Payload...)
		items = append(items, message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNextMark; err != nil {
		s.failNextMark = nil
		return false, err
	}
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID != outboxID {
			continue
		}
		if s.outbox[i].published {
			return false, nil
		}
		s.outbox[i].published = true
		return true, nil
	}
	return false, nil
}

// AllOutbox returns every outbox row ever appended, in creation order.
func (s *Store) AllOutbox() []ports.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, record := range s.outbox {
		items = append(items, record.message)
	}
	return items
}

func (s *Store) menuView(menu entities.Menu) entities.MenuView {
	view := entities.MenuView{Menu: menu}
	for _, submenu := range s.submenus {
		if submenu.MenuID != menu.MenuID {
			continue
		}
		view.SubmenusCount++
		for _, dish := range s.dishes {
			if dish.SubmenuID == submenu.SubmenuID {
				view.DishesCount++
			}
		}
	}
	return view
}

func (s *Store) submenuView(submenu entities.Submenu) entities.SubmenuView {
	view := entities.SubmenuView{Submenu: submenu}
	for _, dish := range s.dishes {
		if dish.SubmenuID == submenu.SubmenuID {
			view.DishesCount++
		}
	}
	return view
}

func page(ids []string, skip, limit int) []string {
	if skip >= len(ids) {
		return nil
	}
	ids = ids[skip:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}
