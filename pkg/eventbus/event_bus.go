package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type Subscriber struct {
	Handler interface{}
}

// EventBus dispatches events synchronously to every handler whose parameter
// list matches the published arguments.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

type EventBusWithError interface {
	EventBus
	PublishE(args ...any) error
}

var (
	ErrNoSubscribers        = serrors.NewError(serrors.KindInternal, "EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers")
	ErrInvalidHandlerReturn = serrors.NewError(serrors.KindInternal, "EVENTBUS_INVALID_HANDLER_RETURN", "invalid handler return signature")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type publisherImpl struct {
	log         *logrus.Logger
	mu          sync.RWMutex
	Subscribers []Subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBusWithError {
	return &publisherImpl{log: log}
}

func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func {
		return false
	}

	if t.NumIn() != len(args) {
		return false
	}

	for i, arg := range args {
		paramType := t.In(i)

		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}

		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}

		if !argType.AssignableTo(paramType) {
			return false
		}
	}

	return true
}

func values(args []interface{}, handler reflect.Type) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(handler.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

func (p *publisherImpl) matching(args []interface{}) []Subscriber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Subscriber
	for _, s := range p.Subscribers {
		if MatchSignature(s.Handler, args) {
			out = append(out, s)
		}
	}
	return out
}

// Publish calls every matching handler. Handler panics are logged and do not
// stop the remaining handlers.
func (p *publisherImpl) Publish(args ...interface{}) {
	subs := p.matching(args)
	if len(subs) == 0 {
		if p.log != nil {
			p.log.WithField("event", fmt.Sprintf("%T", firstArg(args))).
				Warn("eventbus.Publish: no matching subscribers")
		}
		return
	}
	for _, s := range subs {
		v := reflect.ValueOf(s.Handler)
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.WithField("handler", v.Type().String()).
						Errorf("eventbus: handler panicked: %v", r)
				}
			}()
			v.Call(values(args, v.Type()))
		}()
	}
}

// PublishE behaves like Publish but collects handler errors and panics.
func (p *publisherImpl) PublishE(args ...any) error {
	subs := p.matching(args)
	if len(subs) == 0 {
		return ErrNoSubscribers
	}

	var errs []error
	for _, s := range subs {
		v := reflect.ValueOf(s.Handler)
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("eventbus: handler %s panicked: %v", v.Type().String(), r))
				}
			}()

			out := v.Call(values(args, v.Type()))
			switch {
			case len(out) == 0:
			case len(out) != 1:
				errs = append(errs, fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, v.Type().String(), len(out)))
			case out[0].Type() != errorType:
				errs = append(errs, fmt.Errorf("%w: handler %s return type is %s", ErrInvalidHandlerReturn, v.Type().String(), out[0].Type().String()))
			case !out[0].IsNil():
				errs = append(errs, out[0].Interface().(error))
			}
		}()
	}
	return errors.Join(errs...)
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	if reflect.TypeOf(handler).Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Subscribers = append(p.Subscribers, Subscriber{Handler: handler})
}

// Unsubscribe removes the first subscriber registered with the same function.
func (p *publisherImpl) Unsubscribe(handler interface{}) {
	ptr := reflect.ValueOf(handler).Pointer()
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.Subscribers {
		if reflect.ValueOf(s.Handler).Pointer() == ptr {
			p.Subscribers = append(p.Subscribers[:i], p.Subscribers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Subscribers = []Subscriber{}
}

func (p *publisherImpl) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.Subscribers)
}

func firstArg(args []interface{}) interface{} {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
