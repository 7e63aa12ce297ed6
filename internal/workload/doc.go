// Package workload содержит вычислительные ядра узла и диспетчер, выбирающий ядро
// по режиму консенсуса, фазе и типу задачи.
//
// # Детерминизм
//
// Каждое ядро - чистая функция от (seed, shard_size, candidate, responses).
// Одинаковые входные данные дают побитово одинаковый Result в любом процессе и на
// любой машине: координатор проверяет ответы участников пересчетом. Под хеш
// попадают отформатированные строки (FormatFixed), а не сами числа с плавающей
// точкой, поэтому формат вывода - часть контракта.
//
// # Ошибки
//
// Нераспознанные поля задачи не являются ошибкой: диспетчер отправляет такую
// задачу в цепочку SHA. Ошибки возвращаются только для дескриптора, который
// невозможно разобрать (ErrInvalidTask), для Monte Carlo с пустым шардом и для
// спектра, длина которого не помещается в int (ErrInvalidShardSize).
//
// Пакет не логирует, не обращается к сети и не хранит состояние между вызовами.
package workload
